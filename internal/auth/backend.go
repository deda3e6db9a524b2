package auth

import (
	"context"
	"fmt"
)

// Backend is the capability interface the session layer consumes. It
// deliberately knows nothing about the concrete store technology: anything
// that can check credentials and rehydrate a user by id can back a session.
//
// Both methods return (nil, nil) for "no authenticated user" -- unknown
// username, wrong password, or a user id that no longer exists. A non-nil
// error is reserved for store failures and must never be conflated with a
// failed authentication.
type Backend interface {
	Authenticate(ctx context.Context, creds Credentials) (*User, error)
	Resolve(ctx context.Context, id int64) (*User, error)
}

// storeBackend is the production Backend over a UserRepository.
type storeBackend struct {
	repo UserRepository
}

// NewBackend creates the store-backed authentication backend.
func NewBackend(repo UserRepository) Backend {
	return &storeBackend{repo: repo}
}

// Authenticate looks the user up by username and verifies the password
// against the stored argon2id hash. An unknown username and a wrong password
// produce the same (nil, nil) result so the response shape cannot be used
// for username enumeration.
func (b *storeBackend) Authenticate(ctx context.Context, creds Credentials) (*User, error) {
	user, err := b.repo.FindByUsername(ctx, creds.Username)
	if err != nil {
		return nil, fmt.Errorf("authenticating %q: %w", creds.Username, err)
	}
	if user == nil {
		return nil, nil
	}

	if !VerifyPassword(creds.Password, user.PasswordHash) {
		return nil, nil
	}

	return user, nil
}

// Resolve rehydrates a user from a session's stored user id. A missing id
// (user deleted after session issuance) is "not authenticated", not an error.
func (b *storeBackend) Resolve(ctx context.Context, id int64) (*User, error) {
	user, err := b.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolving user %d: %w", id, err)
	}
	return user, nil
}
