package components

import (
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// heroImages rotate in the hero background. The first one is visible before
// any script runs.
var heroImages = []string{
	"https://images.pexels.com/photos/1440476/pexels-photo-1440476.jpeg?auto=compress&cs=tinysrgb&w=1920",
	"https://images.pexels.com/photos/2506923/pexels-photo-2506923.jpeg?auto=compress&cs=tinysrgb&w=1920",
	"https://images.pexels.com/photos/3408353/pexels-photo-3408353.jpeg?auto=compress&cs=tinysrgb&w=1920",
	"https://images.pexels.com/photos/4064432/pexels-photo-4064432.jpeg?auto=compress&cs=tinysrgb&w=1920",
}

func Hero(p Page) g.Node {
	slides := make([]g.Node, 0, len(heroImages))
	for i, src := range heroImages {
		class := "hero-slide"
		if i == 0 {
			class += " is-active"
		}
		slides = append(slides, Img(
			Class(class),
			Src(src),
			Alt(""),
			g.Attr("data-hero-slide", strconv.Itoa(i)),
			g.If(i > 0, g.Attr("loading", "lazy")),
		))
	}

	return Section(
		Class("hero"),
		ID("hero"),
		g.Attr("data-hero", ""),

		Div(Class("hero-media"), g.Attr("data-parallax", "0.5"), g.Group(slides)),
		Div(Class("hero-overlay")),

		Div(
			Class("hero-content container"),
			H1(Class("hero-title"), g.Text(p.T("hero.title"))),
			P(Class("hero-subtitle"), g.Text(p.T("hero.subtitle"))),
			Div(
				Class("hero-actions"),
				A(Class("btn btn-primary"), Href("#services"), g.Text(p.T("hero.serviceDetails"))),
				Button(
					Type("button"),
					Class("btn btn-ghost"),
					g.Attr("data-modal-open", "contact-modal"),
					g.Text(p.T("hero.contact")),
				),
			),
		),

		A(Class("hero-scroll"), Href("#philosophy"), g.Text(p.T("common.scroll"))),
	)
}
