package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
	"time"

	"github.com/dhjapan/site/internal/contact"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Values are escaped by contact.Escape before they reach the templates, so
// text/template is used on purpose: html/template would escape them again.
var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

const timestampLayout = "2006/1/2 15:04:05"

const (
	adminSubjectPrefix = "お問い合わせ: "
	customerSubjectJA  = "お問い合わせを受け付けました - Discovery Hidden Japan"
	customerSubjectEN  = "We have received your inquiry - Discovery Hidden Japan"
)

// AdminSubject is the subject line of the admin notification.
func AdminSubject(escapedSubject string) string {
	return adminSubjectPrefix + escapedSubject
}

// CustomerSubject is the subject line of the auto-reply in lang ("ja" or "en").
func CustomerSubject(lang string) string {
	if lang == "en" {
		return customerSubjectEN
	}
	return customerSubjectJA
}

type adminData struct {
	contact.Escaped
	SentAt string
}

type customerData struct {
	contact.Escaped
	Reference string
}

// Renderer produces the two email bodies for a submission.
type Renderer struct {
	loc *time.Location
	now func() time.Time
}

// NewRenderer returns a Renderer that stamps admin emails in loc.
func NewRenderer(loc *time.Location) *Renderer {
	return &Renderer{loc: loc, now: time.Now}
}

// TokyoLocation returns Asia/Tokyo, or a fixed +09:00 zone when the tz
// database is unavailable.
func TokyoLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// RenderAdmin renders the notification sent to the site owner.
func (r *Renderer) RenderAdmin(e contact.Escaped) (string, error) {
	return render("admin.html.tmpl", adminData{
		Escaped: e,
		SentAt:  r.now().In(r.loc).Format(timestampLayout),
	})
}

// RenderCustomer renders the auto-reply in lang ("ja" or "en").
func (r *Renderer) RenderCustomer(e contact.Escaped, reference, lang string) (string, error) {
	name := "customer_ja.html.tmpl"
	if lang == "en" {
		name = "customer_en.html.tmpl"
	}
	return render(name, customerData{Escaped: e, Reference: reference})
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("mailer: render %s: %w", name, err)
	}
	return buf.String(), nil
}
