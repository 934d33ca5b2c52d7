// Package components renders the site pages with gomponents.
package components

import (
	g "maragu.dev/gomponents"

	"github.com/dhjapan/site/internal/i18n"
)

// Page carries what every component needs to render in one language.
type Page struct {
	Lang    i18n.Lang
	Path    string
	Catalog *i18n.Catalog
	BaseURL string
}

// T looks up key in the page language.
func (p Page) T(key string) string {
	return p.Catalog.T(p.Lang, key)
}

// List looks up a string list in the page language.
func (p Page) List(key string) []string {
	return p.Catalog.List(p.Lang, key)
}

// Home is the single-page site.
func Home(p Page) g.Node {
	return Layout(p,
		NavBar(p),
		Hero(p),
		Philosophy(p),
		Services(p),
		Strengths(p),
		Executives(p),
		CompanyInfo(p),
		Contact(p),
		SiteFooter(p),
		ContactModal(p),
	)
}
