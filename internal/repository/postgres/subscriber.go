// Package postgres implements the repository interfaces against PostgreSQL
// using database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// SubscriberRepo implements subscription.Repository and the confirmed-reader
// side used by broadcasts.
type SubscriberRepo struct{ db *sql.DB }

// NewSubscriberRepo creates a Postgres-backed subscriber repository.
func NewSubscriberRepo(db *sql.DB) *SubscriberRepo { return &SubscriberRepo{db: db} }

// BeginSubscription inserts the pending subscriber row and its confirmation
// token in a single transaction. A subscriber row without a usable token is
// a dead end for that user, so the two inserts commit together or not at all.
func (r *SubscriberRepo) BeginSubscription(ctx context.Context, sub domain.Subscriber, confirmationToken string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin subscription tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`, sub.ID, sub.Email.String(), sub.Name.String(), sub.SubscribedAt, sub.Status)
	if err != nil {
		return fmt.Errorf("insert subscriber: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		VALUES ($1, $2)
	`, confirmationToken, sub.ID)
	if err != nil {
		return fmt.Errorf("insert confirmation token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit subscription tx: %w", err)
	}
	return nil
}

// Confirm looks the token up and promotes its subscriber to confirmed.
// Status only moves forward; confirming an already confirmed subscriber
// rewrites the same value and succeeds.
func (r *SubscriberRepo) Confirm(ctx context.Context, confirmationToken string) error {
	var subscriberID uuid.UUID
	err := r.db.QueryRowContext(ctx, `
		SELECT subscriber_id FROM subscription_tokens
		WHERE subscription_token = $1
	`, confirmationToken).Scan(&subscriberID)
	if err == sql.ErrNoRows {
		return subscription.ErrTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("look up confirmation token: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE subscriptions SET status = $1 WHERE id = $2
	`, domain.SubscriberConfirmed, subscriberID)
	if err != nil {
		return fmt.Errorf("confirm subscriber: %w", err)
	}
	return nil
}

// ListConfirmed returns a snapshot of every confirmed subscriber's email.
// Rows that no longer parse as valid addresses are logged and skipped so one
// corrupt record cannot block a whole broadcast.
func (r *SubscriberRepo) ListConfirmed(ctx context.Context) ([]domain.SubscriberEmail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT email FROM subscriptions WHERE status = $1
	`, domain.SubscriberConfirmed)
	if err != nil {
		return nil, fmt.Errorf("list confirmed subscribers: %w", err)
	}
	defer rows.Close()

	var emails []domain.SubscriberEmail
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan subscriber row: %w", err)
		}
		email, err := domain.ParseSubscriberEmail(raw)
		if err != nil {
			logger.Warn("skipping confirmed subscriber with invalid stored email",
				"email", raw, "error", err.Error())
			continue
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriber rows: %w", err)
	}
	return emails, nil
}
