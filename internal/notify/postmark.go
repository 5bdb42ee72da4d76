package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ignite/newsletter/internal/domain"
)

// PostmarkClient sends transactional email through a Postmark-compatible
// HTTP API: POST {base}/email authenticated by a server token header.
type PostmarkClient struct {
	baseURL     string
	serverToken string
	sender      domain.SubscriberEmail
	httpClient  *http.Client
}

// sendEmailRequest is the Postmark wire format.
type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// NewPostmarkClient creates a Postmark client. timeout bounds every send so
// a stalled transport cannot hang a caller indefinitely.
func NewPostmarkClient(baseURL string, sender domain.SubscriberEmail, serverToken string, timeout time.Duration) *PostmarkClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PostmarkClient{
		baseURL:     baseURL,
		serverToken: serverToken,
		sender:      sender,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Send delivers one email. A non-2xx response is an error; the response body
// is folded into the error for operator diagnosis.
func (c *PostmarkClient) Send(ctx context.Context, to domain.SubscriberEmail, subject, htmlBody, textBody string) error {
	payload, err := json.Marshal(sendEmailRequest{
		From:     c.sender.String(),
		To:       to.String(),
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("marshaling send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("email API error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
