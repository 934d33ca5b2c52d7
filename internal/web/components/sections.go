package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

var serviceKeys = []string{"inboundTour", "consulting", "dxSolution", "customTravel", "vacationRental"}

var strengthKeys = []string{"global", "support", "technology"}

var executiveKeys = []string{"yoshihiroFujimoto", "ayanoFujimoto", "takashiAoki", "junkoOkabe", "shoKishiro"}

var companyRows = []string{"companyName", "established", "representative", "address", "capital", "registration", "membership"}

// section wraps content in a revealable block. The id doubles as the reveal
// key used by site.js.
func section(id, class string, content ...g.Node) g.Node {
	return Section(
		ID(id),
		Class("section "+class),
		g.Attr("data-animate", id),
		Div(Class("container"), g.Group(content)),
	)
}

func sectionHeading(title, subtitle string) g.Node {
	return Div(
		Class("section-heading"),
		H2(g.Text(title)),
		g.If(subtitle != "", P(Class("section-subtitle"), g.Text(subtitle))),
	)
}

func Philosophy(p Page) g.Node {
	return section("philosophy", "philosophy",
		sectionHeading(p.T("philosophy.title"), ""),
		P(Class("lead"), g.Text(p.T("philosophy.description1"))),
		P(g.Text(p.T("philosophy.description2"))),
	)
}

func Services(p Page) g.Node {
	return section("services", "services",
		sectionHeading(p.T("services.title"), p.T("services.subtitle")),
		Div(
			Class("card-grid"),
			g.Group(g.Map(serviceKeys, func(key string) g.Node {
				prefix := "services." + key
				return Article(
					Class("card service-card"),
					ID("service-"+key),
					H3(g.Text(p.T(prefix+".title"))),
					P(Class("card-subtitle"), g.Text(p.T(prefix+".subtitle"))),
					P(g.Text(p.T(prefix+".description"))),
					Ul(
						Class("feature-list"),
						g.Group(g.Map(p.List(prefix+".features"), func(f string) g.Node {
							return Li(g.Text(f))
						})),
					),
				)
			})),
		),
	)
}

func Strengths(p Page) g.Node {
	return section("strengths", "strengths",
		sectionHeading(p.T("strengths.title"), p.T("strengths.subtitle")),
		Div(
			Class("card-grid card-grid-3"),
			g.Group(g.Map(strengthKeys, func(key string) g.Node {
				return Article(
					Class("card strength-card"),
					H3(g.Text(p.T("strengths."+key+".title"))),
					P(g.Text(p.T("strengths."+key+".description"))),
				)
			})),
		),
	)
}

func Executives(p Page) g.Node {
	return section("executives", "executives",
		sectionHeading(p.T("executives.title"), p.T("executives.subtitle")),
		Div(
			Class("card-grid"),
			g.Group(g.Map(executiveKeys, func(key string) g.Node {
				prefix := "executives." + key
				return Article(
					Class("card executive-card"),
					H3(g.Text(p.T(prefix+".name"))),
					P(Class("card-subtitle"), g.Text(p.T(prefix+".role"))),
					P(g.Text(p.T(prefix+".background"))),
					P(Class("expertise"), g.Text(p.T(prefix+".expertise"))),
				)
			})),
		),
	)
}

func CompanyInfo(p Page) g.Node {
	return section("company", "company-info",
		sectionHeading(p.T("companyInfo.title"), ""),
		Dl(
			Class("info-table"),
			g.Group(g.Map(companyRows, func(key string) g.Node {
				return Div(
					Class("info-row"),
					Dt(g.Text(p.T("companyInfo."+key))),
					Dd(g.Text(p.T("companyInfo."+key+"Value"))),
				)
			})),
		),
	)
}

func Contact(p Page) g.Node {
	return section("contact", "contact",
		sectionHeading(p.T("contact.title"), p.T("contact.subtitle")),
		Div(
			Class("contact-actions"),
			Button(
				Type("button"),
				Class("btn btn-primary"),
				g.Attr("data-modal-open", "contact-modal"),
				g.Text(p.T("contact.button")),
			),
			P(
				g.Text(p.T("contact.orEmail")+" "),
				A(Href("mailto:info@dh-japan.com"), g.Text("info@dh-japan.com")),
			),
		),
	)
}

func SiteFooter(p Page) g.Node {
	return Footer(
		Class("site-footer"),
		Div(
			Class("container"),
			Strong(g.Text("Discovery Hidden Japan")),
			P(g.Text(p.T("footer.tagline"))),
			Small(g.Text(p.T("footer.copyright"))),
		),
	)
}
