package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dhjapan/site/internal/handler"
	"github.com/dhjapan/site/internal/middleware"
	"github.com/dhjapan/site/internal/web"
)

func (app *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	pages := handler.NewPageHandler(app.logger, app.catalog, app.config.SiteBaseURL)
	contactHandler := handler.NewContactHandler(app.logger, app.mailer, app.renderer, app.catalog,
		app.config.MailFrom, app.config.MailAdminTo)

	r.Use(middleware.MaintenanceMode(app.config.MaintenanceMode,
		middleware.SecurityHeaders(app.config.IsProduction())(http.HandlerFunc(pages.Maintenance)),
		http.HandlerFunc(contactHandler.Unavailable),
	))

	// Static files
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS))))

	// Pages
	r.Group(func(r chi.Router) {
		r.Use(middleware.SecurityHeaders(app.config.IsProduction()))

		r.Get("/", pages.Home)
		r.Get("/ja", pages.Home)
		r.Get("/ja/*", pages.Home)
		r.Get("/lang", pages.SwitchLanguage)
	})

	// Health check
	r.Get("/api/health", handler.Health(app.mailer))

	// Contact relay. Every method reaches the handler so it can answer
	// preflights and 405s itself; only POST is rate limited.
	limit := middleware.RateLimit(
		middleware.PerMinute(app.config.RateLimitPerMinute),
		app.config.RateLimitBurst,
		http.HandlerFunc(contactHandler.TooManyRequests),
	)
	r.HandleFunc("/api/send-email", contactHandler.SendEmail)
	r.With(limit).Post("/api/send-email", contactHandler.SendEmail)

	return r
}
