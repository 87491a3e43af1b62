package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/authstack/userauth/internal/domain"
)

func TestCleanupExpiredDeletesOnlyStaleExpiredRows(t *testing.T) {
	sessions := newInMemorySessionRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewSessionMaintenanceService(sessions, logger)

	seed := func(token string, state domain.SessionState, age time.Duration) {
		t.Helper()
		if err := sessions.Create(&domain.Session{UserID: 1, Token: token, State: state}); err != nil {
			t.Fatalf("seed %s: %v", token, err)
		}
		sessions.mu.Lock()
		sessions.byToken[token].UpdatedAt = time.Now().Add(-age)
		sessions.mu.Unlock()
	}
	seed("stale-expired", domain.SessionStateExpired, 48*time.Hour)
	seed("fresh-expired", domain.SessionStateExpired, time.Hour)
	seed("stale-active", domain.SessionStateActive, 48*time.Hour)

	deleted, err := svc.CleanupExpired(24 * time.Hour)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deletion, got %d", deleted)
	}
	if sessions.count() != 2 {
		t.Fatalf("expected 2 remaining sessions, got %d", sessions.count())
	}
	if _, err := sessions.FindByTokenAndUser("stale-active", 1); err != nil {
		t.Fatal("active sessions must survive cleanup")
	}
	if _, err := sessions.FindByTokenAndUser("fresh-expired", 1); err != nil {
		t.Fatal("recently expired sessions inside the retention window must survive")
	}
}
