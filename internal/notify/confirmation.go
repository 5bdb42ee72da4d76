package notify

import (
	"fmt"

	"github.com/osteele/liquid"
)

// ConfirmationSubject is the subject line of every confirmation email.
const ConfirmationSubject = "Welcome!"

const confirmationHTMLTemplate = `<p>Welcome {{ name }} to our newsletter!</p>` +
	`<p>Visit <a href="{{ confirmation_link }}">{{ confirmation_link }}</a> to confirm your subscription.</p>`

const confirmationTextTemplate = `Welcome {{ name }} to our newsletter!
Visit {{ confirmation_link }} to confirm your subscription.
`

// ConfirmationTemplates renders the double-opt-in confirmation email. Both
// renderings embed the identical confirmation link.
type ConfirmationTemplates struct {
	html *liquid.Template
	text *liquid.Template
}

// NewConfirmationTemplates parses the built-in Liquid templates once.
func NewConfirmationTemplates() (*ConfirmationTemplates, error) {
	engine := liquid.NewEngine()
	html, err := engine.ParseString(confirmationHTMLTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML confirmation template: %w", err)
	}
	text, err := engine.ParseString(confirmationTextTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing text confirmation template: %w", err)
	}
	return &ConfirmationTemplates{html: html, text: text}, nil
}

// Render binds the subscriber name and confirmation link into both variants.
func (t *ConfirmationTemplates) Render(name, confirmationLink string) (htmlBody, textBody string, err error) {
	bindings := map[string]any{
		"name":              name,
		"confirmation_link": confirmationLink,
	}
	htmlOut, err := t.html.Render(bindings)
	if err != nil {
		return "", "", fmt.Errorf("rendering HTML confirmation body: %w", err)
	}
	textOut, err := t.text.Render(bindings)
	if err != nil {
		return "", "", fmt.Errorf("rendering text confirmation body: %w", err)
	}
	return string(htmlOut), string(textOut), nil
}
