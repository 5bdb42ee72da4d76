// Package notify delivers single emails to single recipients. It owns the
// Notifier abstraction and the transport clients behind it; broadcast and
// retry policy belong to the callers.
package notify

import (
	"context"

	"github.com/ignite/newsletter/internal/domain"
)

// Notifier sends one email to one recipient. Implementations must honor the
// context deadline; a send is never retried here.
type Notifier interface {
	Send(ctx context.Context, to domain.SubscriberEmail, subject, htmlBody, textBody string) error
}
