package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/dhjapan/site/internal/i18n"
)

func Layout(p Page, content ...g.Node) g.Node {
	title := p.T("meta.title")
	description := p.T("meta.description")

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang(string(p.Lang)),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(title)),
				Meta(Name("description"), Content(description)),

				Meta(g.Attr("property", "og:title"), Content(title)),
				Meta(g.Attr("property", "og:description"), Content(description)),
				Meta(g.Attr("property", "og:type"), Content("website")),
				Meta(g.Attr("property", "og:image"), Content(heroImages[0])),

				g.If(p.BaseURL != "", g.Group([]g.Node{
					Link(Rel("canonical"), Href(p.BaseURL+i18n.SwitchPath(p.Path, p.Lang))),
					Link(Rel("alternate"), g.Attr("hreflang", "en"), Href(p.BaseURL+i18n.SwitchPath(p.Path, i18n.LangEN))),
					Link(Rel("alternate"), g.Attr("hreflang", "ja"), Href(p.BaseURL+i18n.SwitchPath(p.Path, i18n.LangJA))),
				})),

				Link(Rel("stylesheet"), Href("/static/css/site.css")),
			),
			Body(
				g.Group(content),

				Script(Src("/static/js/site.js"), Defer()),
			),
		),
	})
}
