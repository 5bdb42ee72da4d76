package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// UserRepo implements identity.CredentialStore against the users table.
// User rows are created out-of-band; this repository only reads them.
type UserRepo struct{ db *sql.DB }

// NewUserRepo creates a Postgres-backed credential store.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetCredentials returns the user id and stored password hash for username.
// found is false for an unknown username; err is reserved for infrastructure
// failures so callers can keep auth and infra outcomes apart.
func (r *UserRepo) GetCredentials(ctx context.Context, username string) (uuid.UUID, string, bool, error) {
	var (
		userID       uuid.UUID
		passwordHash string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, password_hash FROM users
		WHERE username = $1
	`, username).Scan(&userID, &passwordHash)
	if err == sql.ErrNoRows {
		return uuid.Nil, "", false, nil
	}
	if err != nil {
		return uuid.Nil, "", false, fmt.Errorf("query stored credentials: %w", err)
	}
	return userID, passwordHash, true, nil
}
