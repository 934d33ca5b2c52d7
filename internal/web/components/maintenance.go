package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Maintenance is shown instead of every page while the site is down.
func Maintenance(p Page) g.Node {
	return Layout(p,
		Main(
			Class("maintenance"),
			Div(
				Class("container"),
				Strong(Class("brand"), g.Text("Discovery Hidden Japan")),
				H1(g.Text(p.T("maintenance.title"))),
				P(g.Text(p.T("maintenance.message"))),
				A(Href("mailto:info@dh-japan.com"), g.Text("info@dh-japan.com")),
			),
		),
	)
}
