package components

import (
	"net/url"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/dhjapan/site/internal/i18n"
)

var navItems = []struct {
	Anchor string
	Key    string
}{
	{"philosophy", "nav.philosophy"},
	{"services", "nav.services"},
	{"strengths", "nav.strength"},
	{"executives", "nav.executives"},
	{"company", "nav.companyInfo"},
	{"contact", "nav.contact"},
}

// LanguageSwitchURL is the /lang link that stores the choice and returns to
// the current path in the other language.
func LanguageSwitchURL(p Page) string {
	q := url.Values{}
	q.Set("to", string(i18n.Toggle(p.Lang)))
	q.Set("from", p.Path)
	return "/lang?" + q.Encode()
}

func NavBar(p Page) g.Node {
	home := i18n.SwitchPath("/", p.Lang)

	links := g.Map(navItems, func(item struct {
		Anchor string
		Key    string
	}) g.Node {
		return Li(A(Href("#"+item.Anchor), g.Attr("data-menu-close", ""), g.Text(p.T(item.Key))))
	})

	return Header(
		Class("topbar"),
		ID("topbar"),
		Nav(
			Class("topbar-inner container"),
			A(Class("brand"), Href(home), g.Text("Discovery Hidden Japan")),

			Ul(Class("nav-links"), g.Group(links)),

			Div(
				Class("nav-actions"),
				A(
					Class("lang-toggle"),
					Href(LanguageSwitchURL(p)),
					g.Attr("hreflang", string(i18n.Toggle(p.Lang))),
					g.Text(p.T("nav.language")),
				),
				Button(
					Type("button"),
					Class("btn btn-primary"),
					g.Attr("data-modal-open", "contact-modal"),
					g.Text(p.T("nav.contact")),
				),
				Button(
					Type("button"),
					Class("menu-toggle"),
					g.Attr("data-menu-toggle", "mobile-menu"),
					g.Attr("aria-expanded", "false"),
					g.Attr("aria-controls", "mobile-menu"),
					g.Text(p.T("nav.menu")),
				),
			),
		),
		Div(
			Class("mobile-menu"),
			ID("mobile-menu"),
			g.Attr("hidden", ""),
			Ul(g.Group(links)),
		),
	)
}
