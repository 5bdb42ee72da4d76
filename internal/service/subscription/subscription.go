// Package subscription orchestrates the double-opt-in flow: create a pending
// subscriber with its confirmation token in one transaction, then email the
// confirmation link.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/notify"
	"github.com/ignite/newsletter/internal/token"
)

// ErrInvalidInput reports client input that failed domain validation.
var ErrInvalidInput = errors.New("invalid subscription input")

// ErrTokenNotFound reports a confirmation attempt with an unknown token.
var ErrTokenNotFound = errors.New("confirmation token not found")

// Repository persists subscribers and their confirmation tokens.
type Repository interface {
	// BeginSubscription inserts the pending subscriber and its token in one
	// transaction: both rows commit together or neither does.
	BeginSubscription(ctx context.Context, sub domain.Subscriber, confirmationToken string) error
	// Confirm promotes the subscriber owning the token to confirmed.
	// Unknown tokens yield ErrTokenNotFound; re-confirming is a no-op.
	Confirm(ctx context.Context, confirmationToken string) error
}

// Service drives subscribe and confirm.
type Service struct {
	repo      Repository
	notifier  notify.Notifier
	templates *notify.ConfirmationTemplates
	baseURL   string
}

// NewService builds the orchestrator. baseURL is the externally reachable
// root of this service, used to build confirmation links.
func NewService(repo Repository, notifier notify.Notifier, templates *notify.ConfirmationTemplates, baseURL string) *Service {
	return &Service{repo: repo, notifier: notifier, templates: templates, baseURL: baseURL}
}

// Subscribe validates the raw form input, commits the pending subscriber with
// its token, and emails the confirmation link.
//
// The email goes out only after the transaction commits; a failed send leaves
// the committed pending row in place, so a retry with the same address
// creates a second pending subscriber. That is the accepted behavior, not a
// bug to paper over here.
func (s *Service) Subscribe(ctx context.Context, rawName, rawEmail string) error {
	name, err := domain.ParseSubscriberName(rawName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	email, err := domain.ParseSubscriberEmail(rawEmail)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	confirmationToken, err := token.New()
	if err != nil {
		return fmt.Errorf("generating confirmation token: %w", err)
	}

	sub := domain.NewSubscriber(name, email)
	if err := s.repo.BeginSubscription(ctx, sub, confirmationToken); err != nil {
		return fmt.Errorf("storing subscription: %w", err)
	}

	link := s.confirmationLink(confirmationToken)
	htmlBody, textBody, err := s.templates.Render(name.String(), link)
	if err != nil {
		return fmt.Errorf("rendering confirmation email: %w", err)
	}
	if err := s.notifier.Send(ctx, email, notify.ConfirmationSubject, htmlBody, textBody); err != nil {
		return fmt.Errorf("sending confirmation email: %w", err)
	}
	return nil
}

// Confirm promotes the subscriber that owns confirmationToken. An empty or
// unknown token is a not-found outcome; there is no expiry and confirming an
// already confirmed subscriber succeeds again.
func (s *Service) Confirm(ctx context.Context, confirmationToken string) error {
	if confirmationToken == "" {
		return ErrTokenNotFound
	}
	return s.repo.Confirm(ctx, confirmationToken)
}

func (s *Service) confirmationLink(confirmationToken string) string {
	return fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s",
		s.baseURL, url.QueryEscape(confirmationToken))
}
