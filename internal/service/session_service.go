package service

import (
	"log/slog"
	"time"

	"github.com/authstack/userauth/internal/repository"
)

// SessionMaintenanceService prunes the ledger. Every login adds a row
// and validation only ever flips rows to EXPIRED, so expired sessions
// accumulate until an operator (or a scheduled job) sweeps them.
type SessionMaintenanceService struct {
	sessions repository.SessionRepository
	logger   *slog.Logger
	now      func() time.Time
}

func NewSessionMaintenanceService(sessions repository.SessionRepository, logger *slog.Logger) *SessionMaintenanceService {
	return &SessionMaintenanceService{sessions: sessions, logger: logger, now: time.Now}
}

// CleanupExpired deletes EXPIRED sessions whose last transition is older
// than retention. ACTIVE sessions are never touched.
func (s *SessionMaintenanceService) CleanupExpired(retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	deleted, err := s.sessions.DeleteExpiredBefore(cutoff)
	if err != nil {
		return deleted, err
	}
	s.logger.Info("expired sessions pruned", "deleted", deleted, "cutoff", cutoff)
	return deleted, nil
}
