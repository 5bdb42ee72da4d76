package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is the single externally visible authentication
// failure. Unknown username, wrong password, and an undecodable stored hash
// all collapse into it so a caller cannot tell which sub-case occurred.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialStore looks up stored operator credentials by username.
type CredentialStore interface {
	// GetCredentials returns the user id and stored password hash for
	// username, found=false when no such user exists, and a non-nil error
	// only for infrastructure failures.
	GetCredentials(ctx context.Context, username string) (userID uuid.UUID, passwordHash string, found bool, err error)
}

// Validator authenticates a username/password pair against a CredentialStore.
//
// To defeat timing-based username enumeration it verifies against a fixed
// decoy hash whenever the username is unknown, so both paths pay the same
// argon2 cost. The decoy is computed once at construction from configuration,
// never kept as ambient package state.
type Validator struct {
	store CredentialStore
	pool  *VerifierPool
	decoy string
}

// NewValidator builds a Validator. decoySeed is hashed once with the
// production argon2 parameters; the resulting hash is what unknown usernames
// verify against.
func NewValidator(store CredentialStore, pool *VerifierPool, decoySeed string) (*Validator, error) {
	decoy, err := HashPassword(decoySeed)
	if err != nil {
		return nil, fmt.Errorf("computing decoy hash: %w", err)
	}
	return &Validator{store: store, pool: pool, decoy: decoy}, nil
}

// Validate returns the user id when username exists and password matches its
// stored hash. All authentication failures return ErrInvalidCredentials; any
// other error is an infrastructure failure (store or worker pool).
func (v *Validator) Validate(ctx context.Context, username, password string) (uuid.UUID, error) {
	userID, expectedHash, found, err := v.store.GetCredentials(ctx, username)
	if err != nil {
		return uuid.Nil, fmt.Errorf("looking up credentials: %w", err)
	}
	if !found {
		expectedHash = v.decoy
	}

	// Always verify, even for unknown usernames, and always on the worker
	// pool. The request goroutine suspends until a worker finishes.
	verr := v.pool.Verify(ctx, password, expectedHash)
	switch {
	case errors.Is(verr, ErrPasswordMismatch), errors.Is(verr, ErrMalformedHash):
		return uuid.Nil, ErrInvalidCredentials
	case verr != nil:
		return uuid.Nil, fmt.Errorf("verifying password: %w", verr)
	}

	if !found {
		// The decoy verification matched only if the caller guessed the
		// decoy seed; there is still no such user.
		return uuid.Nil, ErrInvalidCredentials
	}
	return userID, nil
}
