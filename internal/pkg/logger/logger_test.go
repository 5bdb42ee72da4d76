package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
	}
	for _, tt := range tests {
		if got := RedactEmail(tt.in); got != tt.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLogRedactsEmbeddedEmails(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Info("confirmation sent", "email", "ursula.leguin@example.com")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	got, _ := entry["email"].(string)
	if strings.Contains(got, "ursula.leguin@") {
		t.Errorf("email field not redacted: %q", got)
	}
	if !strings.Contains(got, "@example.com") {
		t.Errorf("redaction should keep the domain: %q", got)
	}
	if entry["level"] != "INFO" || entry["msg"] != "confirmation sent" {
		t.Errorf("entry = %v", entry)
	}
}
