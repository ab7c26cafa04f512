package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(30 * time.Minute).WithClock(clock.Now)

	session, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if session.ID == "" {
		t.Fatal("Session ID should be set")
	}

	clock.Advance(20 * time.Minute)
	if _, err := store.Validate(ctx, session.ID); err != nil {
		t.Fatalf("Session should still be valid: %v", err)
	}

	// Validation slides the expiry
	clock.Advance(20 * time.Minute)
	if _, err := store.Validate(ctx, session.ID); err != nil {
		t.Fatalf("Session should have been extended: %v", err)
	}

	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Validate(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after logout, got %v", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(time.Minute).WithClock(clock.Now)

	session, _ := store.Create(ctx)
	clock.Advance(time.Minute)

	if _, err := store.Validate(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected expired session, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expired session should be removed, %d left", store.Len())
	}

	if _, err := store.Validate(ctx, "unknown"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound for unknown ID, got %v", err)
	}
}

func TestMemoryStore_CreateEvictsExpired(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(time.Minute).WithClock(clock.Now)

	store.Create(ctx)
	store.Create(ctx)
	clock.Advance(2 * time.Minute)
	store.Create(ctx)

	if store.Len() != 1 {
		t.Errorf("Expected 1 live session, got %d", store.Len())
	}
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		name      string
		expected  string
		submitted string
		want      bool
	}{
		{"match", "s3cret", "s3cret", true},
		{"mismatch", "s3cret", "S3cret", false},
		{"empty submitted", "s3cret", "", false},
		{"unset password", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.expected, tt.submitted); got != tt.want {
				t.Errorf("CheckPassword(%q, %q) = %v, want %v", tt.expected, tt.submitted, got, tt.want)
			}
		})
	}
}

func TestSessionContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("Empty context should carry no session")
	}

	s := &Session{ID: "abc"}
	got, ok := FromContext(WithSession(context.Background(), s))
	if !ok || got.ID != "abc" {
		t.Errorf("Expected session abc, got %+v", got)
	}
}

func TestLimiter(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	limiter := NewLimiter(3, clock.Now)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("Fourth request should be limited")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Error("Other clients have their own bucket")
	}

	// 3 per minute refills one token every 20 seconds
	clock.Advance(20 * time.Second)
	if !limiter.Allow("10.0.0.1") {
		t.Error("Token should have been refilled")
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("Only one token should have been refilled")
	}
}

func TestLimiter_EvictsRefilledBuckets(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	limiter := NewLimiter(3, clock.Now)

	for i := 0; i < 50; i++ {
		limiter.Allow(fmt.Sprintf("10.0.1.%d", i))
	}
	if limiter.Len() != 50 {
		t.Fatalf("Expected 50 tracked clients, got %d", limiter.Len())
	}

	// Exhaust one client so its bucket is still draining
	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.1")

	clock.Advance(20 * time.Second)
	limiter.Allow("10.0.0.2")

	// The 50 clients refilled and were dropped; 10.0.0.1 has one of three tokens
	if limiter.Len() != 2 {
		t.Errorf("Expected 2 tracked clients after eviction, got %d", limiter.Len())
	}
	if !limiter.Allow("10.0.0.1") {
		t.Error("Refilled token should be available")
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("Retained bucket should keep its drained state")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, nil)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("x") {
			t.Fatal("Disabled limiter should allow everything")
		}
	}
}
