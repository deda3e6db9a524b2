package auth

import (
	"context"
	"sync"
	"time"
)

// mockUserRepository is a function-field mock of UserRepository. Tests set
// only the methods they expect to be called.
type mockUserRepository struct {
	findByUsernameFn    func(ctx context.Context, username string) (*User, error)
	findByIDFn          func(ctx context.Context, id int64) (*User, error)
	insertFn            func(ctx context.Context, username, passwordHash string) (int64, error)
	listFn              func(ctx context.Context) ([]User, error)
	updateProfileTextFn func(ctx context.Context, id int64, content string) (bool, error)
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return m.findByUsernameFn(ctx, username)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockUserRepository) Insert(ctx context.Context, username, passwordHash string) (int64, error) {
	return m.insertFn(ctx, username, passwordHash)
}

func (m *mockUserRepository) List(ctx context.Context) ([]User, error) {
	return m.listFn(ctx)
}

func (m *mockUserRepository) UpdateProfileText(ctx context.Context, id int64, content string) (bool, error) {
	return m.updateProfileTextFn(ctx, id, content)
}

// memorySessionStore is an in-memory SessionStore for tests. Error fields,
// when set, are returned by the matching method instead of touching the map.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session

	insertErr error
	getErr    error
	updateErr error
	deleteErr error
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]*Session)}
}

func (s *memorySessionStore) Insert(_ context.Context, sess *Session) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	s.sessions[sess.Token] = &copied
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, token string) (*Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	copied := *sess
	return &copied, nil
}

func (s *memorySessionStore) UpdateExpiry(_ context.Context, token string, expiry time.Time) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[token]; ok {
		sess.Expiry = expiry
	}
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, token string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *memorySessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}

func (s *memorySessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
