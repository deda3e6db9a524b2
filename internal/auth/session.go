package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// sessionTokenBytes is the number of random bytes in a session token.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const sessionTokenBytes = 32

// SessionStore defines how session records are persisted. The production
// implementation lives in MariaDB next to the users table; tests use an
// in-memory one. Get returns (nil, nil) when no record exists.
type SessionStore interface {
	Insert(ctx context.Context, s *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	UpdateExpiry(ctx context.Context, token string, expiry time.Time) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Manager issues, validates, and destroys sessions. Expiration is sliding:
// every successful validation pushes the expiry another TTL into the future.
type Manager struct {
	store SessionStore
	ttl   time.Duration

	// now is swappable in tests.
	now func() time.Time
}

// NewManager creates a session manager with the given store and sliding TTL.
func NewManager(store SessionStore, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create issues a fresh session for the user: a cryptographically random
// opaque token, an auth hash binding the session to the user's current
// password hash, and an expiry one TTL from now.
func (m *Manager) Create(ctx context.Context, user *User) (*Session, error) {
	token, err := generateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generating session token: %w", err)
	}

	session := &Session{
		Token:    token,
		UserID:   user.ID,
		AuthHash: credentialFingerprint(user.PasswordHash),
		Expiry:   m.now().Add(m.ttl),
	}

	if err := m.store.Insert(ctx, session); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	return session, nil
}

// Validate fetches the session for a token. Absent and expired sessions both
// come back as (nil, nil). On success the expiry slides forward by one TTL;
// a failure to persist the new expiry is logged but does not reject the
// session -- the read already succeeded, and turning a transient store
// hiccup into a logout would punish the wrong party.
func (m *Manager) Validate(ctx context.Context, token string) (*Session, error) {
	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if session == nil || session.Expired(m.now()) {
		return nil, nil
	}

	session.Expiry = m.now().Add(m.ttl)
	if err := m.store.UpdateExpiry(ctx, token, session.Expiry); err != nil {
		slog.Warn("failed to slide session expiry",
			slog.Int64("user_id", session.UserID),
			slog.Any("error", err),
		)
	}

	return session, nil
}

// Destroy deletes the session record. Idempotent: destroying a token that
// never existed or was already reaped is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if err := m.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// credentialFingerprint derives the session auth hash from a stored password
// hash. Any password change rotates the PHC salt and therefore this digest,
// which is what stale-credential invalidation keys on.
func credentialFingerprint(passwordHash string) []byte {
	sum := sha256.Sum256([]byte(passwordHash))
	return sum[:]
}

// generateSessionToken creates a cryptographically random hex-encoded token.
func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// --- MariaDB session store ---

// sessionStore implements SessionStore with hand-written MariaDB queries.
type sessionStore struct {
	db *sql.DB
}

// NewSessionStore creates the MariaDB-backed session store.
func NewSessionStore(db *sql.DB) SessionStore {
	return &sessionStore{db: db}
}

func (s *sessionStore) Insert(ctx context.Context, sess *Session) error {
	query := `INSERT INTO sessions (token, user_id, auth_hash, expiry) VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, sess.Token, sess.UserID, sess.AuthHash, sess.Expiry)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (s *sessionStore) Get(ctx context.Context, token string) (*Session, error) {
	query := `SELECT token, user_id, auth_hash, expiry FROM sessions WHERE token = ?`

	sess := &Session{}
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&sess.Token,
		&sess.UserID,
		&sess.AuthHash,
		&sess.Expiry,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return sess, nil
}

func (s *sessionStore) UpdateExpiry(ctx context.Context, token string, expiry time.Time) error {
	query := `UPDATE sessions SET expiry = ? WHERE token = ?`

	_, err := s.db.ExecContext(ctx, query, expiry, token)
	if err != nil {
		return fmt.Errorf("updating session expiry: %w", err)
	}
	return nil
}

func (s *sessionStore) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = ?`

	_, err := s.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *sessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expiry < ?`

	result, err := s.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return n, nil
}
