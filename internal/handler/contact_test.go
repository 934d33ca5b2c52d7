package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhjapan/site/internal/contact"
	"github.com/dhjapan/site/internal/i18n"
	"github.com/dhjapan/site/internal/mailer"
)

const validBody = `{"name":"山田太郎","email":"taro@example.com","company":"","phone":"","subject":"インバウンドツアー","message":"line1\nline2"}`

type fakeSender struct {
	configured bool
	errs       []error
	sent       []mailer.Message
}

func (f *fakeSender) Configured() bool { return f.configured }

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) (*mailer.SendResult, error) {
	i := len(f.sent)
	f.sent = append(f.sent, msg)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return &mailer.SendResult{ID: "id-" + msg.IdempotencyKey}, nil
}

type panicRenderer struct{}

func (panicRenderer) RenderAdmin(contact.Escaped) (string, error) { panic("boom") }
func (panicRenderer) RenderCustomer(contact.Escaped, string, string) (string, error) {
	return "", nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestContactHandler(t *testing.T, sender mailSender) *ContactHandler {
	t.Helper()
	catalog, err := i18n.LoadEmbedded()
	require.NoError(t, err)
	return NewContactHandler(testLogger(), sender, mailer.NewRenderer(time.UTC), catalog,
		"Discovery Hidden Japan <noreply@dh-japan.com>", "info@dh-japan.com")
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeRelay(t *testing.T, rr *httptest.ResponseRecorder) relayResponse {
	t.Helper()
	var resp relayResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func assertCORS(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rr.Header().Get("Access-Control-Allow-Headers"))
}

func TestSendEmailSuccess(t *testing.T) {
	sender := &fakeSender{configured: true}
	h := newTestContactHandler(t, sender)

	rr := post(h.SendEmail, validBody)

	assert.Equal(t, http.StatusOK, rr.Code)
	assertCORS(t, rr)
	resp := decodeRelay(t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, "お問い合わせを送信しました", resp.Message)
	assert.Empty(t, resp.Error)

	require.Len(t, sender.sent, 2)
	admin, customer := sender.sent[0], sender.sent[1]

	assert.Equal(t, []string{"info@dh-japan.com"}, admin.To)
	assert.Equal(t, "taro@example.com", admin.ReplyTo)
	assert.Equal(t, "お問い合わせ: インバウンドツアー", admin.Subject)
	assert.Contains(t, admin.HTML, "line1<br>line2")
	assert.True(t, strings.HasPrefix(admin.IdempotencyKey, "contact-admin-"))

	assert.Equal(t, []string{"taro@example.com"}, customer.To)
	assert.Empty(t, customer.ReplyTo)
	assert.Equal(t, "お問い合わせを受け付けました - Discovery Hidden Japan", customer.Subject)
	assert.Contains(t, customer.HTML, "山田太郎")
	assert.True(t, strings.HasPrefix(customer.IdempotencyKey, "contact-customer-ja-"))

	assert.Equal(t,
		strings.TrimPrefix(admin.IdempotencyKey, "contact-admin-"),
		strings.TrimPrefix(customer.IdempotencyKey, "contact-customer-ja-"))
}

func TestSendEmailEscapesMarkup(t *testing.T) {
	sender := &fakeSender{configured: true}
	h := newTestContactHandler(t, sender)

	body := `{"name":"<b>x</b>","email":"a@b.co","subject":"<i>s</i>","message":"<script>alert(1)</script>"}`
	rr := post(h.SendEmail, body)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, sender.sent, 2)
	admin := sender.sent[0]
	assert.Equal(t, "お問い合わせ: &lt;i&gt;s&lt;/i&gt;", admin.Subject)
	assert.NotContains(t, admin.HTML, "<script>")
	assert.Contains(t, admin.HTML, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, admin.HTML, "&lt;b&gt;x&lt;/b&gt;")
}

func TestSendEmailValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"empty object", `{}`, "お名前を入力してください"},
		{"blank name", `{"name":"   ","email":"bad","subject":"","message":""}`, "お名前を入力してください"},
		{"missing email", `{"name":"a","subject":"s","message":"m"}`, "メールアドレスを入力してください"},
		{"missing subject", `{"name":"a","email":"not-an-email","message":"m"}`, "お問い合わせ種別を選択してください"},
		{"missing message", `{"name":"a","email":"a@b.co","subject":"s","message":"\n\t"}`, "メッセージを入力してください"},
		{"bad email", `{"name":"a","email":"user@domain","subject":"s","message":"m"}`, "有効なメールアドレスを入力してください"},
		{"padded email", `{"name":"a","email":" a@b.co","subject":"s","message":"m"}`, "有効なメールアドレスを入力してください"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sender := &fakeSender{configured: true}
			h := newTestContactHandler(t, sender)

			rr := post(h.SendEmail, tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assertCORS(t, rr)
			resp := decodeRelay(t, rr)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.want, resp.Error)
			assert.Empty(t, sender.sent)
		})
	}
}

func TestSendEmailLocalizedMessages(t *testing.T) {
	sender := &fakeSender{configured: true}
	h := newTestContactHandler(t, sender)

	rr := post(h.SendEmail, `{"name":"","lang":"en"}`)
	assert.Equal(t, "Please enter your name.", decodeRelay(t, rr).Error)

	req := httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader(`{"name":""}`))
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	rr = httptest.NewRecorder()
	h.SendEmail(rr, req)
	assert.Equal(t, "Please enter your name.", decodeRelay(t, rr).Error)

	req = httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader(`{"name":""}`))
	req.Header.Set("Accept-Language", "fr-FR")
	rr = httptest.NewRecorder()
	h.SendEmail(rr, req)
	assert.Equal(t, "お名前を入力してください", decodeRelay(t, rr).Error)

	rr = post(h.SendEmail, `{"name":"a","email":"a@b.co","subject":"s","message":"m","lang":"en"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Your inquiry has been sent.", decodeRelay(t, rr).Message)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, mailer.CustomerSubject("en"), sender.sent[1].Subject)
}

func TestSendEmailBadJSON(t *testing.T) {
	cases := map[string]string{
		"syntax":     `{"name":`,
		"empty":      ``,
		"wrong type": `{"name":123}`,
		"two values": `{} {}`,
		"not object": `"hello"`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			sender := &fakeSender{configured: true}
			h := newTestContactHandler(t, sender)

			rr := post(h.SendEmail, body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assertCORS(t, rr)
			assert.Equal(t, "無効なリクエスト形式です", decodeRelay(t, rr).Error)
			assert.Empty(t, sender.sent)
		})
	}
}

func TestSendEmailToleratesUnknownFields(t *testing.T) {
	sender := &fakeSender{configured: true}
	h := newTestContactHandler(t, sender)

	rr := post(h.SendEmail, `{"name":"a","email":"a@b.co","subject":"s","message":"m","newsletter":true}`)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSendEmailMethods(t *testing.T) {
	sender := &fakeSender{configured: true}
	h := newTestContactHandler(t, sender)

	rr := httptest.NewRecorder()
	h.SendEmail(rr, httptest.NewRequest(http.MethodOptions, "/api/send-email", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
	assertCORS(t, rr)

	for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		rr := httptest.NewRecorder()
		h.SendEmail(rr, httptest.NewRequest(m, "/api/send-email", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, m)
		assertCORS(t, rr)
		resp := decodeRelay(t, rr)
		assert.False(t, resp.Success)
		assert.Equal(t, "Method not allowed", resp.Error)
	}
	assert.Empty(t, sender.sent)
}

func TestSendEmailNotConfigured(t *testing.T) {
	sender := &fakeSender{configured: false}
	h := newTestContactHandler(t, sender)

	rr := post(h.SendEmail, validBody)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "メール送信サービスが設定されていません", decodeRelay(t, rr).Error)
	assert.Empty(t, sender.sent)
}

func TestSendEmailProviderFailures(t *testing.T) {
	rejected := &mailer.APIError{StatusCode: 422, Status: "422 Unprocessable Entity", Body: `{"message":"bad"}`}
	transport := errors.New("dial tcp: connection refused")

	cases := []struct {
		name      string
		errs      []error
		wantCalls int
		want      string
	}{
		{"admin rejected", []error{rejected}, 1, "メール送信に失敗しました。しばらくしてから再度お試しください。"},
		{"admin transport", []error{transport}, 1, "メール送信中にエラーが発生しました"},
		{"customer rejected", []error{nil, rejected}, 2, "確認メールの送信に失敗しました。しばらくしてから再度お試しください。"},
		{"customer transport", []error{nil, transport}, 2, "メール送信中にエラーが発生しました"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sender := &fakeSender{configured: true, errs: tc.errs}
			h := newTestContactHandler(t, sender)

			rr := post(h.SendEmail, validBody)

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assertCORS(t, rr)
			resp := decodeRelay(t, rr)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.want, resp.Error)
			assert.Len(t, sender.sent, tc.wantCalls)
		})
	}
}

func TestSendEmailRecoversFromPanic(t *testing.T) {
	catalog, err := i18n.LoadEmbedded()
	require.NoError(t, err)
	h := NewContactHandler(testLogger(), &fakeSender{configured: true}, panicRenderer{}, catalog, "from@x.co", "to@x.co")

	rr := post(h.SendEmail, validBody)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assertCORS(t, rr)
	assert.Equal(t, "メール送信中にエラーが発生しました", decodeRelay(t, rr).Error)
}

func TestSendEmailThroughProvider(t *testing.T) {
	var (
		mu   sync.Mutex
		keys []string
		tos  [][]string
	)
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))

		var msg mailer.Message
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))

		mu.Lock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		tos = append(tos, msg.To)
		n := len(keys)
		mu.Unlock()

		if n == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"internal"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(mailer.SendResult{ID: "msg_1"})
	}))
	defer provider.Close()

	client := mailer.NewClient(provider.URL, "re_test", provider.Client())
	h := newTestContactHandler(t, client)

	rr := post(h.SendEmail, validBody)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "確認メールの送信に失敗しました。しばらくしてから再度お試しください。", decodeRelay(t, rr).Error)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, keys, 2)
	assert.Equal(t, []string{"info@dh-japan.com"}, tos[0])
	assert.Equal(t, []string{"taro@example.com"}, tos[1])
	assert.True(t, strings.HasPrefix(keys[0], "contact-admin-"))
	assert.True(t, strings.HasPrefix(keys[1], "contact-customer-"))
}

// idempotentProvider answers like the email API does for repeated keys: the
// same key with the same payload replays the first answer, the same key with a
// different payload is refused with 409.
type idempotentProvider struct {
	mu       sync.Mutex
	accepted map[string]string
	failNext map[string]bool
	log      []string
}

func newIdempotentProvider(t *testing.T) (*idempotentProvider, *httptest.Server) {
	t.Helper()
	p := &idempotentProvider{accepted: map[string]string{}, failNext: map[string]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(srv.Close)
	return p, srv
}

func (p *idempotentProvider) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Header.Get("Idempotency-Key")

	p.mu.Lock()
	defer p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if prev, ok := p.accepted[key]; ok {
		if prev != string(body) {
			p.log = append(p.log, "409 "+key)
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"statusCode":409,"name":"invalid_idempotent_request","message":"Same idempotency key used with a different request payload."}`)
			return
		}
		p.log = append(p.log, "replay "+key)
		_ = json.NewEncoder(w).Encode(mailer.SendResult{ID: "msg-" + key})
		return
	}
	for prefix := range p.failNext {
		if strings.HasPrefix(key, prefix) {
			delete(p.failNext, prefix)
			p.log = append(p.log, "500 "+key)
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"statusCode":500,"name":"internal_server_error","message":"internal"}`)
			return
		}
	}
	p.accepted[key] = string(body)
	p.log = append(p.log, "200 "+key)
	_ = json.NewEncoder(w).Encode(mailer.SendResult{ID: "msg-" + key})
}

// stampingRenderer changes the admin body on every call, the way the sent-at
// timestamp does between two attempts.
type stampingRenderer struct {
	*mailer.Renderer
	calls int
}

func (s *stampingRenderer) RenderAdmin(e contact.Escaped) (string, error) {
	s.calls++
	html, err := s.Renderer.RenderAdmin(e)
	return html + fmt.Sprintf("<!-- %d -->", s.calls), err
}

func TestSendEmailRetryAfterConfirmationFailure(t *testing.T) {
	provider, srv := newIdempotentProvider(t)
	provider.failNext["contact-customer-"] = true

	catalog, err := i18n.LoadEmbedded()
	require.NoError(t, err)
	h := NewContactHandler(testLogger(), mailer.NewClient(srv.URL, "re_test", srv.Client()),
		&stampingRenderer{Renderer: mailer.NewRenderer(time.UTC)}, catalog,
		"noreply@dh-japan.com", "info@dh-japan.com")

	rr := post(h.SendEmail, validBody)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "確認メールの送信に失敗しました。しばらくしてから再度お試しください。", decodeRelay(t, rr).Error)

	rr = post(h.SendEmail, validBody)
	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeRelay(t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, "お問い合わせを送信しました", resp.Message)

	// A third identical post after full success still succeeds without
	// sending anything new.
	rr = post(h.SendEmail, validBody)
	assert.Equal(t, http.StatusOK, rr.Code)

	provider.mu.Lock()
	defer provider.mu.Unlock()
	require.Len(t, provider.log, 6)
	assert.True(t, strings.HasPrefix(provider.log[0], "200 contact-admin-"))
	assert.True(t, strings.HasPrefix(provider.log[1], "500 contact-customer-ja-"))
	assert.True(t, strings.HasPrefix(provider.log[2], "409 contact-admin-"))
	assert.True(t, strings.HasPrefix(provider.log[3], "200 contact-customer-ja-"))
	assert.True(t, strings.HasPrefix(provider.log[4], "409 contact-admin-"))
	assert.True(t, strings.HasPrefix(provider.log[5], "replay contact-customer-ja-"))
}

func TestSendEmailSameInquiryInBothLanguages(t *testing.T) {
	provider, srv := newIdempotentProvider(t)
	h := newTestContactHandler(t, mailer.NewClient(srv.URL, "re_test", srv.Client()))

	rr := post(h.SendEmail, validBody)
	require.Equal(t, http.StatusOK, rr.Code)

	english := strings.Replace(validBody, `{`, `{"lang":"en",`, 1)
	rr = post(h.SendEmail, english)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Your inquiry has been sent.", decodeRelay(t, rr).Message)

	provider.mu.Lock()
	defer provider.mu.Unlock()
	require.Len(t, provider.log, 4)
	assert.True(t, strings.HasPrefix(provider.log[1], "200 contact-customer-ja-"))
	assert.True(t, strings.HasPrefix(provider.log[3], "200 contact-customer-en-"))
}

func TestSendEmailConcurrentKeyIsStillAFailure(t *testing.T) {
	conflict := &mailer.APIError{
		StatusCode: http.StatusConflict,
		Status:     "409 Conflict",
		Name:       "concurrent_idempotent_requests",
	}
	sender := &fakeSender{configured: true, errs: []error{conflict}}
	h := newTestContactHandler(t, sender)

	rr := post(h.SendEmail, validBody)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "メール送信に失敗しました。しばらくしてから再度お試しください。", decodeRelay(t, rr).Error)
	assert.Len(t, sender.sent, 1)
}

func TestTooManyRequests(t *testing.T) {
	h := newTestContactHandler(t, &fakeSender{configured: true})

	rr := httptest.NewRecorder()
	h.TooManyRequests(rr, httptest.NewRequest(http.MethodPost, "/api/send-email", nil))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assertCORS(t, rr)
	resp := decodeRelay(t, rr)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestUnavailable(t *testing.T) {
	h := newTestContactHandler(t, &fakeSender{configured: true})

	req := httptest.NewRequest(http.MethodPost, "/api/send-email", nil)
	req.Header.Set("Accept-Language", "en")
	rr := httptest.NewRecorder()
	h.Unavailable(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assertCORS(t, rr)
	assert.Equal(t, "The service is under maintenance. Please try again later.", decodeRelay(t, rr).Error)
}
