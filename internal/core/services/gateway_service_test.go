package services

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jordan12251/telegram-form-api/internal/core/domain"
)

func TestGateway_DeliversFormToListedChat(t *testing.T) {
	env := newTestGateway(t, NewAccessPolicy("", []string{"42"}, false))

	code := mustEncode(t, 42)
	receipt, err := env.gateway.SendForm(context.Background(), code, "landing-page", "", map[string]string{
		"name":  "Ada",
		"email": "ada@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.ChatID != 42 {
		t.Fatalf("expected delivery to chat 42, got %d", receipt.ChatID)
	}
	if receipt.DeliveryID == "" {
		t.Fatal("expected a delivery id")
	}

	if len(env.messenger.texts) != 1 {
		t.Fatalf("expected one delivery, got %d", len(env.messenger.texts))
	}
	text := env.messenger.texts[0]
	for _, want := range []string{"New submission from landing-page", "name: Ada", "email: ada@example.com"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected rendered text to contain %q, got %q", want, text)
		}
	}
}

func TestGateway_EscapesOnlyHTMLSpecials(t *testing.T) {
	env := newTestGateway(t, NewAccessPolicy("", []string{"42"}, false))

	code := mustEncode(t, 42)
	_, err := env.gateway.SendForm(context.Background(), code, "", "", map[string]string{
		"message": `"quoted" <script>&`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Quotes stay intact; only &, < and > are rewritten.
	want := `message: "quoted" &lt;script&gt;&amp;`
	if env.messenger.texts[0] != want {
		t.Fatalf("expected %q, got %q", want, env.messenger.texts[0])
	}
}

func TestGateway_RateLimitsTwentyFirstSubmission(t *testing.T) {
	env := newTestGateway(t, NewAccessPolicy("", []string{"42"}, false))

	code := mustEncode(t, 42)
	form := map[string]string{"name": "Ada"}

	for i := 0; i < 20; i++ {
		if _, err := env.gateway.SendForm(context.Background(), code, "", "", form); err != nil {
			t.Fatalf("unexpected error on submission %d: %v", i+1, err)
		}
	}

	if _, err := env.gateway.SendForm(context.Background(), code, "", "", form); !domain.IsRateLimitedError(err) {
		t.Fatalf("expected rate limited error on 21st submission, got %v", err)
	}
	if len(env.messenger.texts) != 20 {
		t.Fatalf("expected exactly 20 deliveries, got %d", len(env.messenger.texts))
	}
}

func TestGateway_ForbiddenDoesNotConsumeBudget(t *testing.T) {
	env := newTestGateway(t, NewAccessPolicy("owner", []string{"100"}, false))

	code := mustEncode(t, 42)
	_, err := env.gateway.SendForm(context.Background(), code, "", "", map[string]string{"a": "b"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(env.messenger.texts) != 0 {
		t.Fatal("forbidden submission must not reach the messenger")
	}
	// Access is checked before admission, so the probe left no counter behind.
	if got := env.storage.counts["ratelimit:chat:42"]; got != 0 {
		t.Fatalf("expected untouched budget for chat 42, got count %d", got)
	}
}

func TestGateway_OwnerKeyBypassesAllowList(t *testing.T) {
	env := newTestGateway(t, NewAccessPolicy("owner", []string{"100"}, false))

	code := mustEncode(t, 42)
	if _, err := env.gateway.SendForm(context.Background(), code, "", "owner", map[string]string{"a": "b"}); err != nil {
		t.Fatalf("expected owner key to bypass allow-list, got %v", err)
	}
}

func TestGateway_RejectsMalformedCodeAndPayload(t *testing.T) {
	env := newTestGateway(t, NewAccessPolicy("", nil, true))

	if _, err := env.gateway.SendForm(context.Background(), "bad$code", "", "", map[string]string{"a": "b"}); !errors.Is(err, domain.ErrInvalidCode) {
		t.Fatalf("expected invalid code error, got %v", err)
	}
	if _, err := env.gateway.SendForm(context.Background(), mustEncode(t, 42), "", "", nil); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload error for empty form, got %v", err)
	}
	if _, err := env.gateway.SendPhoto(context.Background(), mustEncode(t, 42), "", "", "not-a-data-uri"); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload error for broken data URI, got %v", err)
	}
}

func TestGateway_DeliveryFailureIsSurfaced(t *testing.T) {
	env := newTestGateway(t, NewAccessPolicy("", []string{"42"}, false))
	env.messenger.fail = errors.New("telegram rejected request: chat not found")

	_, err := env.gateway.SendForm(context.Background(), mustEncode(t, 42), "", "", map[string]string{"a": "b"})
	if !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Fatalf("expected delivery failed error, got %v", err)
	}
}

func TestGateway_SendsPhotoWithCaption(t *testing.T) {
	env := newTestGateway(t, NewAccessPolicy("", []string{"42"}, false))

	payload := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))
	dataURI := "data:image/png;base64," + payload

	receipt, err := env.gateway.SendPhoto(context.Background(), mustEncode(t, 42), "contact-form", "", dataURI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.ChatID != 42 {
		t.Fatalf("expected delivery to chat 42, got %d", receipt.ChatID)
	}

	if len(env.messenger.photos) != 1 {
		t.Fatalf("expected one photo delivery, got %d", len(env.messenger.photos))
	}
	sent := env.messenger.photos[0]
	if string(sent.photo.Data) != "fake-png-bytes" || sent.photo.MIME != "image/png" {
		t.Fatalf("unexpected photo payload: %+v", sent.photo)
	}
	if sent.caption != "Photo from contact-form" {
		t.Fatalf("unexpected caption %q", sent.caption)
	}
}

func TestGateway_EncodeChatRequiresOwnerKey(t *testing.T) {
	env := newTestGateway(t, NewAccessPolicy("owner", nil, false))

	if _, err := env.gateway.EncodeChat(42, "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	code, err := env.gateway.EncodeChat(42, "owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, err := domain.DecodeCode(code); err != nil || got != 42 {
		t.Fatalf("expected code for chat 42, got %q (%d, %v)", code, got, err)
	}
}

func TestGateway_EncodeChatWithoutConfiguredKeyIsMisconfigured(t *testing.T) {
	env := newTestGateway(t, NewAccessPolicy("", nil, false))

	if _, err := env.gateway.EncodeChat(42, ""); !errors.Is(err, domain.ErrMisconfigured) {
		t.Fatalf("expected misconfigured, got %v", err)
	}
}

type gatewayEnv struct {
	gateway   *GatewayService
	storage   *mockStorage
	messenger *fakeMessenger
}

func newTestGateway(t *testing.T, policy *AccessPolicy) *gatewayEnv {
	t.Helper()

	storage := newMockStorage()
	limiter, err := NewRateLimiterService(storage, domain.RateLimitRule{Requests: 20, Window: time.Minute})
	if err != nil {
		t.Fatalf("failed to create limiter: %v", err)
	}

	messenger := &fakeMessenger{}
	gateway, err := NewGatewayService(policy, limiter, messenger, domain.DefaultCodeWidth)
	if err != nil {
		t.Fatalf("failed to create gateway: %v", err)
	}
	return &gatewayEnv{gateway: gateway, storage: storage, messenger: messenger}
}

func mustEncode(t *testing.T, chatID int64) string {
	t.Helper()
	code, err := domain.EncodeChatID(chatID, domain.DefaultCodeWidth)
	if err != nil {
		t.Fatalf("failed to encode chat %d: %v", chatID, err)
	}
	return code
}

type sentPhoto struct {
	chatID  int64
	photo   domain.Photo
	caption string
}

type fakeMessenger struct {
	texts  []string
	photos []sentPhoto
	fail   error
}

func (f *fakeMessenger) SendText(_ context.Context, chatID int64, text string) error {
	if f.fail != nil {
		return f.fail
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeMessenger) SendPhoto(_ context.Context, chatID int64, photo domain.Photo, caption string) error {
	if f.fail != nil {
		return f.fail
	}
	f.photos = append(f.photos, sentPhoto{chatID: chatID, photo: photo, caption: caption})
	return nil
}
