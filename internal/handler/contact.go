package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dhjapan/site/internal/contact"
	"github.com/dhjapan/site/internal/i18n"
	"github.com/dhjapan/site/internal/mailer"
)

type mailSender interface {
	Send(ctx context.Context, msg mailer.Message) (*mailer.SendResult, error)
	Configured() bool
}

type mailRenderer interface {
	RenderAdmin(e contact.Escaped) (string, error)
	RenderCustomer(e contact.Escaped, reference, lang string) (string, error)
}

// ContactHandler relays contact form submissions to the email provider.
type ContactHandler struct {
	BaseHandler
	sender   mailSender
	renderer mailRenderer
	catalog  *i18n.Catalog
	from     string
	adminTo  string
}

func NewContactHandler(logger *slog.Logger, sender mailSender, renderer mailRenderer, catalog *i18n.Catalog, from, adminTo string) *ContactHandler {
	return &ContactHandler{
		BaseHandler: BaseHandler{Logger: logger},
		sender:      sender,
		renderer:    renderer,
		catalog:     catalog,
		from:        from,
		adminTo:     adminTo,
	}
}

var fieldMessages = map[contact.Field]string{
	contact.FieldName:    "relay.nameRequired",
	contact.FieldEmail:   "relay.emailRequired",
	contact.FieldSubject: "relay.subjectRequired",
	contact.FieldMessage: "relay.messageRequired",
}

func setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

// relayLang picks the response language: the form's own lang field, then the
// browser's Accept-Language, then Japanese.
func relayLang(r *http.Request, requested string) i18n.Lang {
	if l, ok := i18n.Parse(requested); ok {
		return l
	}
	return i18n.MatchOr(r.Header.Get("Accept-Language"), i18n.LangJA)
}

func (h *ContactHandler) fail(w http.ResponseWriter, r *http.Request, status int, lang i18n.Lang, key string) {
	h.errorResponse(w, r, status, h.catalog.T(lang, key))
}

// SendEmail handles every method on /api/send-email.
func (h *ContactHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		h.errorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	lang := relayLang(r, "")

	defer func() {
		if rec := recover(); rec != nil {
			h.logError(r, fmt.Errorf("panic: %v", rec))
			h.fail(w, r, http.StatusInternalServerError, lang, "relay.unexpected")
		}
	}()

	var s contact.Submission
	if err := h.readJSON(w, r, &s); err != nil {
		h.requestLogger(r).Debug("rejected contact request", "error", err)
		h.fail(w, r, http.StatusBadRequest, lang, "relay.invalidRequest")
		return
	}
	lang = relayLang(r, s.Lang)

	if err := contact.Validate(s); err != nil {
		var ve *contact.ValidationError
		if !errors.As(err, &ve) {
			h.logError(r, err)
			h.fail(w, r, http.StatusInternalServerError, lang, "relay.unexpected")
			return
		}
		key := fieldMessages[ve.Field]
		if ve.Reason == contact.ReasonInvalidEmail {
			key = "relay.emailInvalid"
		}
		h.fail(w, r, http.StatusBadRequest, lang, key)
		return
	}

	if !h.sender.Configured() {
		h.logError(r, errors.New("email provider API key is not set"))
		h.fail(w, r, http.StatusInternalServerError, lang, "relay.notConfigured")
		return
	}

	escaped := s.Escape()
	reference := s.Reference()
	log := h.requestLogger(r).With("reference", reference)

	adminHTML, err := h.renderer.RenderAdmin(escaped)
	if err != nil {
		h.logError(r, err, "reference", reference)
		h.fail(w, r, http.StatusInternalServerError, lang, "relay.unexpected")
		return
	}
	customerHTML, err := h.renderer.RenderCustomer(escaped, reference, string(lang))
	if err != nil {
		h.logError(r, err, "reference", reference)
		h.fail(w, r, http.StatusInternalServerError, lang, "relay.unexpected")
		return
	}

	adminID, err := h.deliver(r.Context(), log, "admin", mailer.Message{
		From:           h.from,
		To:             []string{h.adminTo},
		Subject:        mailer.AdminSubject(escaped.Subject),
		HTML:           adminHTML,
		ReplyTo:        s.Email,
		IdempotencyKey: "contact-admin-" + reference,
	})
	if err != nil {
		h.sendFailed(w, r, lang, err, "admin", "relay.sendFailed")
		return
	}

	customerID, err := h.deliver(r.Context(), log, "customer", mailer.Message{
		From:           h.from,
		To:             []string{s.Email},
		Subject:        mailer.CustomerSubject(string(lang)),
		HTML:           customerHTML,
		IdempotencyKey: "contact-customer-" + string(lang) + "-" + reference,
	})
	if err != nil {
		h.sendFailed(w, r, lang, err, "customer", "relay.confirmationFailed")
		return
	}

	log.Info("contact submission relayed", "admin_id", adminID, "customer_id", customerID, "lang", lang)

	err = h.writeJSON(w, http.StatusOK, relayResponse{
		Success: true,
		Message: h.catalog.T(lang, "relay.received"),
	}, nil)
	if err != nil {
		h.logError(r, err)
	}
}

// deliver sends one leg. A key the provider already accepted means an earlier
// attempt of the same submission delivered this leg, so the retry moves on
// instead of failing. The returned id is empty in that case.
func (h *ContactHandler) deliver(ctx context.Context, log *slog.Logger, leg string, msg mailer.Message) (string, error) {
	res, err := h.sender.Send(ctx, msg)
	if mailer.IsKeyReused(err) {
		log.Info("email already delivered for this submission", "leg", leg, "key", msg.IdempotencyKey)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	log.Debug("email accepted", "leg", leg, "id", res.ID)
	return res.ID, nil
}

// sendFailed answers a failed provider call. A provider rejection gets the
// leg's own message; anything else is reported as unexpected.
func (h *ContactHandler) sendFailed(w http.ResponseWriter, r *http.Request, lang i18n.Lang, err error, leg, rejectedKey string) {
	var apiErr *mailer.APIError
	if errors.As(err, &apiErr) {
		h.logError(r, err, "leg", leg, "status", apiErr.StatusCode, "body", apiErr.Body)
		h.fail(w, r, http.StatusInternalServerError, lang, rejectedKey)
		return
	}
	h.logError(r, err, "leg", leg)
	h.fail(w, r, http.StatusInternalServerError, lang, "relay.unexpected")
}

// TooManyRequests answers requests turned away by the rate limiter.
func (h *ContactHandler) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	h.fail(w, r, http.StatusTooManyRequests, relayLang(r, ""), "relay.tooManyRequests")
}

// Unavailable answers relay requests while the site is in maintenance.
func (h *ContactHandler) Unavailable(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	h.fail(w, r, http.StatusServiceUnavailable, relayLang(r, ""), "relay.maintenance")
}
