// Package contact holds the contact form submission and the rules that decide
// whether it can be relayed.
package contact

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Submission is one contact form post. It lives for a single request.
type Submission struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"notblank,contactemail"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" validate:"notblank"`
	Message string `json:"message" validate:"notblank"`
	Lang    string `json:"lang"`
}

// Categories are the inquiry categories offered by the form, as catalog keys
// under contactForm.subjects. The relay accepts any non-blank subject text
// because the form posts the localized label.
var Categories = []string{
	"inboundTour",
	"consulting",
	"dxSolution",
	"customTravel",
	"vacationRental",
	"documentRequest",
	"other",
}

// referenceNamespace scopes submission references so they never collide with
// other SHA-1 UUIDs.
var referenceNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://dh-japan.com/contact"))

// Digest returns a blake2b-256 hash over the trimmed fields. Lang is excluded so
// the same inquiry posted from either language hashes the same.
func (s Submission) Digest() [32]byte {
	fields := []string{s.Name, s.Email, s.Company, s.Phone, s.Subject, s.Message}
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(strings.TrimSpace(f))
		b.WriteByte(0)
	}
	return blake2b.Sum256([]byte(b.String()))
}

// Reference returns a stable identifier for the submission.
func (s Submission) Reference() string {
	d := s.Digest()
	return uuid.NewSHA1(referenceNamespace, d[:]).String()
}

// Escaped carries the submission fields after HTML escaping, ready to be
// interpolated into an email body.
type Escaped struct {
	Name    string
	Email   string
	Company string
	Phone   string
	Subject string
	Message string
}

// Escape escapes every field. Message newlines become <br>.
func (s Submission) Escape() Escaped {
	return Escaped{
		Name:    EscapeHTML(s.Name),
		Email:   EscapeHTML(s.Email),
		Company: EscapeHTML(s.Company),
		Phone:   EscapeHTML(s.Phone),
		Subject: EscapeHTML(s.Subject),
		Message: EscapeMessage(s.Message),
	}
}

var htmlReplacer = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// EscapeHTML replaces < and > with their entities. Nothing else is touched, so
// the function is a no-op on text without angle brackets.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// EscapeMessage escapes s and turns each newline into a line break tag.
func EscapeMessage(s string) string {
	return strings.ReplaceAll(EscapeHTML(s), "\n", "<br>")
}
