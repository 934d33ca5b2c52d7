package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	g "maragu.dev/gomponents"

	"github.com/dhjapan/site/internal/i18n"
	"github.com/dhjapan/site/internal/web/components"
)

// PageHandler renders the site pages.
type PageHandler struct {
	BaseHandler
	catalog *i18n.Catalog
	baseURL string
}

func NewPageHandler(logger *slog.Logger, catalog *i18n.Catalog, baseURL string) *PageHandler {
	return &PageHandler{
		BaseHandler: BaseHandler{Logger: logger},
		catalog:     catalog,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// Home serves / in English and /ja in Japanese. A first visit to / from a
// Japanese browser is sent to /ja.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	if i18n.ShouldRedirectRoot(r) {
		http.Redirect(w, r, i18n.SwitchPath("/", i18n.LangJA), http.StatusFound)
		return
	}

	lang := i18n.FromPath(r.URL.Path)
	i18n.SetPreference(w, lang)
	h.render(w, r, http.StatusOK, lang, components.Home(h.page(r, lang)))
}

// Maintenance serves the maintenance page with a 503.
func (h *PageHandler) Maintenance(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromPath(r.URL.Path)
	if l, ok := i18n.Preference(r); ok {
		lang = l
	}
	h.render(w, r, http.StatusServiceUnavailable, lang, components.Maintenance(h.page(r, lang)))
}

func (h *PageHandler) page(r *http.Request, lang i18n.Lang) components.Page {
	return components.Page{
		Lang:    lang,
		Path:    r.URL.Path,
		Catalog: h.catalog,
		BaseURL: h.baseURL,
	}
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, lang i18n.Lang, node g.Node) {
	var buf bytes.Buffer
	if err := node.Render(&buf); err != nil {
		h.logError(r, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", string(lang))
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// SwitchLanguage stores the requested language and returns to the page the
// visitor came from, rewritten for that language.
func (h *PageHandler) SwitchLanguage(w http.ResponseWriter, r *http.Request) {
	from := localPath(r.URL.Query().Get("from"))

	to, ok := i18n.Parse(r.URL.Query().Get("to"))
	if !ok {
		to = i18n.Toggle(i18n.FromPath(from))
	}

	i18n.SetPreference(w, to)
	http.Redirect(w, r, i18n.SwitchPath(from, to), http.StatusFound)
}

// localPath keeps redirects on this site.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return p
}
