package repository

import (
	"context"
	"errors"
	"time"

	"github.com/authstack/userauth/internal/domain"
	"github.com/authstack/userauth/internal/observability"

	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrDuplicateToken means a second session row carried an already
	// recorded token. Token nonces make this unreachable in normal
	// operation; hitting it is an invariant violation worth alerting on.
	ErrDuplicateToken = errors.New("duplicate session token")
)

type SessionRepository interface {
	Create(s *domain.Session) error
	FindByTokenAndUser(token string, userID uint) (*domain.Session, error)
	MarkExpired(sessionID uint) error
	DeleteExpiredBefore(cutoff time.Time) (int64, error)
}

type GormSessionRepository struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &GormSessionRepository{db: db} }

func (r *GormSessionRepository) Create(s *domain.Session) error {
	err := r.db.Create(s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.RecordRepositoryOperation(context.Background(), "session", "create", "conflict")
			return ErrDuplicateToken
		}
		observability.RecordRepositoryOperation(context.Background(), "session", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "create", "success")
	return nil
}

func (r *GormSessionRepository) FindByTokenAndUser(token string, userID uint) (*domain.Session, error) {
	var s domain.Session
	err := r.db.Where("token = ? AND user_id = ?", token, userID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "session", "find_by_token_and_user", "not_found")
			return nil, ErrSessionNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "session", "find_by_token_and_user", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "find_by_token_and_user", "success")
	return &s, nil
}

// MarkExpired transitions a session to EXPIRED. The state guard in the
// WHERE clause makes racing validators converge on the same terminal
// state; marking an already-expired session affects zero rows and is
// not an error.
func (r *GormSessionRepository) MarkExpired(sessionID uint) error {
	err := r.db.Model(&domain.Session{}).
		Where("id = ? AND state = ?", sessionID, domain.SessionStateActive).
		Update("state", domain.SessionStateExpired).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "session", "mark_expired", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "mark_expired", "success")
	return nil
}

func (r *GormSessionRepository) DeleteExpiredBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("state = ? AND updated_at < ?", domain.SessionStateExpired, cutoff).
		Delete(&domain.Session{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "session", "delete_expired_before", "error")
		return res.RowsAffected, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "delete_expired_before", "success")
	return res.RowsAffected, nil
}
