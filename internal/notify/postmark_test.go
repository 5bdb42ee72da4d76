package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ignite/newsletter/internal/domain"
)

func mustEmail(t *testing.T, raw string) domain.SubscriberEmail {
	t.Helper()
	e, err := domain.ParseSubscriberEmail(raw)
	if err != nil {
		t.Fatalf("ParseSubscriberEmail(%q): %v", raw, err)
	}
	return e
}

func TestPostmarkClientSend(t *testing.T) {
	var gotToken string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/email" {
			t.Errorf("request = %s %s, want POST /email", r.Method, r.URL.Path)
		}
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewPostmarkClient(server.URL, mustEmail(t, "sender@example.com"), "server-token", 5*time.Second)

	err := client.Send(context.Background(), mustEmail(t, "to@example.com"), "Hello", "<p>hi</p>", "hi")
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if gotToken != "server-token" {
		t.Errorf("server token header = %q, want %q", gotToken, "server-token")
	}
	for _, field := range []string{"From", "To", "Subject", "HtmlBody", "TextBody"} {
		if _, ok := gotBody[field]; !ok {
			t.Errorf("request body missing field %q", field)
		}
	}
	if gotBody["From"] != "sender@example.com" || gotBody["To"] != "to@example.com" {
		t.Errorf("addresses = From %q To %q", gotBody["From"], gotBody["To"])
	}
}

func TestPostmarkClientSendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ErrorCode":405}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewPostmarkClient(server.URL, mustEmail(t, "sender@example.com"), "t", 5*time.Second)
	err := client.Send(context.Background(), mustEmail(t, "to@example.com"), "s", "h", "t")
	if err == nil {
		t.Fatal("Send succeeded on a non-2xx response")
	}
}

func TestPostmarkClientSendTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewPostmarkClient(server.URL, mustEmail(t, "sender@example.com"), "t", 20*time.Millisecond)
	err := client.Send(context.Background(), mustEmail(t, "to@example.com"), "s", "h", "t")
	if err == nil {
		t.Fatal("Send did not time out against a stalled transport")
	}
}

func TestConfirmationTemplatesRender(t *testing.T) {
	tpl, err := NewConfirmationTemplates()
	if err != nil {
		t.Fatalf("NewConfirmationTemplates error: %v", err)
	}

	link := "https://news.example.com/subscriptions/confirm?subscription_token=abc123"
	html, text, err := tpl.Render("Ursula", link)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	for variant, body := range map[string]string{"html": html, "text": text} {
		if !strings.Contains(body, link) {
			t.Errorf("%s body does not embed the confirmation link: %q", variant, body)
		}
		if !strings.Contains(body, "Ursula") {
			t.Errorf("%s body does not embed the subscriber name: %q", variant, body)
		}
	}
}
