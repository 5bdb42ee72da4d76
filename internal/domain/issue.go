package domain

import (
	"fmt"
	"strings"
)

// IssueContent carries both renderings of one newsletter issue. Recipients
// whose clients cannot display HTML fall back to the text part, so both are
// required.
type IssueContent struct {
	HTML string `json:"html"`
	Text string `json:"text"`
}

// Issue is one newsletter to broadcast to all confirmed subscribers.
type Issue struct {
	Title   string       `json:"title"`
	Content IssueContent `json:"content"`
}

// Validate reports the first missing field, or nil when the issue is
// complete enough to send.
func (i Issue) Validate() error {
	switch {
	case strings.TrimSpace(i.Title) == "":
		return fmt.Errorf("missing required field title")
	case i.Content.HTML == "":
		return fmt.Errorf("missing required field content.html")
	case i.Content.Text == "":
		return fmt.Errorf("missing required field content.text")
	}
	return nil
}
