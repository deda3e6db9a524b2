package auth

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"testing"
	"time"
)

func TestManager_CreateAndValidate(t *testing.T) {
	store := newMemorySessionStore()
	manager := NewManager(store, time.Hour)

	user := &User{ID: 3, Username: "alice", PasswordHash: "$argon2id$fake"}

	session, err := manager.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(session.Token) != sessionTokenBytes*2 {
		t.Errorf("expected %d-char hex token, got %d chars", sessionTokenBytes*2, len(session.Token))
	}
	if session.UserID != 3 {
		t.Errorf("expected user id 3, got %d", session.UserID)
	}
	want := sha256.Sum256([]byte(user.PasswordHash))
	if !bytes.Equal(session.AuthHash, want[:]) {
		t.Error("expected auth hash to fingerprint the password hash")
	}

	got, err := manager.Validate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected session to validate")
	}
	if got.UserID != 3 {
		t.Errorf("expected user id 3, got %d", got.UserID)
	}
}

func TestManager_CreateUniqueTokens(t *testing.T) {
	store := newMemorySessionStore()
	manager := NewManager(store, time.Hour)
	user := &User{ID: 1, PasswordHash: "hash"}

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		session, err := manager.Create(context.Background(), user)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if seen[session.Token] {
			t.Fatal("duplicate session token issued")
		}
		seen[session.Token] = true
	}
}

func TestManager_ValidateUnknownToken(t *testing.T) {
	manager := NewManager(newMemorySessionStore(), time.Hour)

	session, err := manager.Validate(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session != nil {
		t.Error("expected nil session for unknown token")
	}
}

func TestManager_ValidateExpired(t *testing.T) {
	store := newMemorySessionStore()
	manager := NewManager(store, time.Hour)

	current := time.Now()
	manager.now = func() time.Time { return current }

	session, err := manager.Create(context.Background(), &User{ID: 1, PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Step past the expiry.
	current = current.Add(time.Hour + time.Second)

	got, err := manager.Validate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected expired session to be rejected")
	}
}

func TestManager_SlidingExpiry(t *testing.T) {
	store := newMemorySessionStore()
	manager := NewManager(store, time.Hour)

	current := time.Now()
	manager.now = func() time.Time { return current }

	session, err := manager.Create(context.Background(), &User{ID: 1, PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// 50 minutes later the session is still live; validation pushes the
	// expiry a full TTL from now.
	current = current.Add(50 * time.Minute)
	got, err := manager.Validate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected session to validate")
	}
	if want := current.Add(time.Hour); !got.Expiry.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, got.Expiry)
	}

	// Another 50 minutes would have killed the original expiry, but the
	// slide keeps the session alive.
	current = current.Add(50 * time.Minute)
	got, err = manager.Validate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got == nil {
		t.Error("expected slid session to still validate")
	}
}

func TestManager_ValidateSurvivesSlideFailure(t *testing.T) {
	store := newMemorySessionStore()
	manager := NewManager(store, time.Hour)

	session, err := manager.Create(context.Background(), &User{ID: 1, PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// The read succeeded; a failed expiry write must not log the user out.
	store.updateErr = errors.New("write timeout")

	got, err := manager.Validate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Error("expected session to validate despite slide failure")
	}
}

func TestManager_ValidateStoreError(t *testing.T) {
	store := newMemorySessionStore()
	store.getErr = errors.New("connection refused")
	manager := NewManager(store, time.Hour)

	session, err := manager.Validate(context.Background(), "token")
	if session != nil {
		t.Error("expected nil session on store error")
	}
	if !errors.Is(err, store.getErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}

func TestManager_Destroy(t *testing.T) {
	store := newMemorySessionStore()
	manager := NewManager(store, time.Hour)

	session, err := manager.Create(context.Background(), &User{ID: 1, PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := manager.Destroy(context.Background(), session.Token); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}

	got, err := manager.Validate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected destroyed session to be gone")
	}

	// Destroying again is a no-op, not an error.
	if err := manager.Destroy(context.Background(), session.Token); err != nil {
		t.Errorf("expected idempotent destroy, got %v", err)
	}
}
