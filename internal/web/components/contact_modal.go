package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/dhjapan/site/internal/contact"
)

type formField struct {
	name     string
	kind     string
	required bool
}

func requiredMark(p Page, required bool) g.Node {
	return g.If(required, Span(Class("required"), g.Text(p.T("contactForm.required"))))
}

func textField(p Page, f formField) g.Node {
	id := "contact-" + f.name
	return Div(
		Class("form-field"),
		Label(For(id), g.Text(p.T("contactForm."+f.name)), requiredMark(p, f.required)),
		Input(
			ID(id),
			Name(f.name),
			Type(f.kind),
			Placeholder(p.T("contactForm.placeholder."+f.name)),
			g.If(f.required, Required()),
		),
	)
}

// ContactModal is the contact form dialog. site.js posts it as JSON to
// /api/send-email.
func ContactModal(p Page) g.Node {
	return Div(
		Class("modal"),
		ID("contact-modal"),
		g.Attr("hidden", ""),
		g.Attr("role", "dialog"),
		g.Attr("aria-modal", "true"),
		g.Attr("aria-labelledby", "contact-modal-title"),

		Div(Class("modal-backdrop"), g.Attr("data-modal-close", "contact-modal")),

		Div(
			Class("modal-panel"),
			Div(
				Class("modal-header"),
				H2(ID("contact-modal-title"), g.Text(p.T("contactForm.title"))),
				Button(
					Type("button"),
					Class("modal-close"),
					g.Attr("data-modal-close", "contact-modal"),
					g.Attr("aria-label", p.T("contactForm.cancel")),
					g.Text("×"),
				),
			),
			P(Class("form-hint"), g.Text(p.T("contactForm.subtitle"))),

			Div(Class("form-banner"), ID("contact-banner"), g.Attr("role", "status"), g.Attr("hidden", "")),

			Form(
				ID("contact-form"),
				Action("/api/send-email"),
				Method("post"),
				g.Attr("data-success", p.T("contactForm.success")),
				g.Attr("data-error", p.T("contactForm.error")),
				g.Attr("data-submitting", p.T("contactForm.submitting")),
				g.Attr("novalidate", ""),

				Input(Type("hidden"), Name("lang"), Value(string(p.Lang))),

				textField(p, formField{name: "name", kind: "text", required: true}),
				textField(p, formField{name: "email", kind: "email", required: true}),
				textField(p, formField{name: "company", kind: "text"}),
				textField(p, formField{name: "phone", kind: "tel"}),

				Div(
					Class("form-field"),
					Label(For("contact-subject"), g.Text(p.T("contactForm.subject")), requiredMark(p, true)),
					Select(
						ID("contact-subject"),
						Name("subject"),
						Required(),
						Option(Value(""), g.Text(p.T("contactForm.selectSubject"))),
						g.Group(g.Map(contact.Categories, func(key string) g.Node {
							label := p.T("contactForm.subjects." + key)
							return Option(Value(label), g.Text(label))
						})),
					),
				),

				Div(
					Class("form-field"),
					Label(For("contact-message"), g.Text(p.T("contactForm.message")), requiredMark(p, true)),
					Textarea(
						ID("contact-message"),
						Name("message"),
						g.Attr("rows", "6"),
						Placeholder(p.T("contactForm.placeholder.message")),
						Required(),
					),
				),

				Div(
					Class("form-actions"),
					Button(
						Type("button"),
						Class("btn btn-ghost"),
						g.Attr("data-modal-close", "contact-modal"),
						g.Text(p.T("contactForm.cancel")),
					),
					Button(Type("submit"), Class("btn btn-primary"), g.Text(p.T("contactForm.submit"))),
				),
			),
		),
	)
}
