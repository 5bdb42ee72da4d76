// Package newsletter orchestrates publishing one issue to every confirmed
// subscriber: operator authentication, body validation, then per-recipient
// fan-out.
package newsletter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/identity"
	"github.com/ignite/newsletter/internal/notify"
	"github.com/ignite/newsletter/internal/pkg/logger"
)

// ErrInvalidIssue reports a submitted issue missing its title or one of the
// two content renderings.
var ErrInvalidIssue = errors.New("invalid newsletter issue")

// ErrAuth wraps every authentication failure surfaced from Publish. It maps
// to 401 at the boundary; infrastructure failures deliberately do not wrap it.
var ErrAuth = identity.ErrInvalidCredentials

// SubscriberSource yields the broadcast audience.
type SubscriberSource interface {
	// ListConfirmed returns a point-in-time snapshot of confirmed subscriber
	// emails. Malformed stored rows are skipped by the implementation, never
	// fatal.
	ListConfirmed(ctx context.Context) ([]domain.SubscriberEmail, error)
}

// CredentialValidator authenticates the publishing operator.
type CredentialValidator interface {
	Validate(ctx context.Context, username, password string) (uuid.UUID, error)
}

// Service drives the publish flow.
type Service struct {
	creds       CredentialValidator
	subscribers SubscriberSource
	notifier    notify.Notifier
}

// NewService builds the broadcast orchestrator.
func NewService(creds CredentialValidator, subscribers SubscriberSource, notifier notify.Notifier) *Service {
	return &Service{creds: creds, subscribers: subscribers, notifier: notifier}
}

// Publish authenticates the operator, validates the issue, and sends it to
// every confirmed subscriber.
//
// The fan-out stops on the first failed send and returns that error: the
// remaining recipients are not attempted and nothing is re-queued. Errors
// satisfying errors.Is(err, ErrAuth) are authentication failures; an invalid
// issue satisfies errors.Is(err, ErrInvalidIssue); everything else is an
// infrastructure failure.
func (s *Service) Publish(ctx context.Context, username, password string, issue domain.Issue) error {
	userID, err := s.creds.Validate(ctx, username, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return err
		}
		return fmt.Errorf("authenticating operator: %w", err)
	}

	if err := issue.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIssue, err)
	}

	recipients, err := s.subscribers.ListConfirmed(ctx)
	if err != nil {
		return fmt.Errorf("listing confirmed subscribers: %w", err)
	}

	logger.Info("publishing newsletter",
		"user_id", userID.String(),
		"title", issue.Title,
		"recipients", len(recipients))

	for _, recipient := range recipients {
		if err := s.notifier.Send(ctx, recipient, issue.Title, issue.Content.HTML, issue.Content.Text); err != nil {
			return fmt.Errorf("sending issue to %s: %w", recipient, err)
		}
	}
	return nil
}
