package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/authstack/userauth/internal/domain"
	"github.com/authstack/userauth/internal/observability"
	"github.com/authstack/userauth/internal/repository"
	"github.com/authstack/userauth/internal/security"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrWrongPassword     = errors.New("wrong password")
)

// emailLookupNamespace scopes negative cache entries for email lookups.
const emailLookupNamespace = "user.email"

// AuthService reconciles the two trust mechanisms: the stateless
// signature check any instance can perform with the shared secret, and
// the stateful session ledger that lets the server revoke or expire a
// token regardless of its signature.
type AuthService struct {
	users       repository.UserRepository
	sessions    repository.SessionRepository
	hasher      *security.PasswordHasher
	codec       *security.TokenCodec
	lookupCache NegativeLookupCacheStore
	lookupTTL   time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	hasher *security.PasswordHasher,
	codec *security.TokenCodec,
	lookupCache NegativeLookupCacheStore,
	lookupTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	if lookupCache == nil {
		lookupCache = NewNoopNegativeLookupCacheStore()
	}
	return &AuthService{
		users:       users,
		sessions:    sessions,
		hasher:      hasher,
		codec:       codec,
		lookupCache: lookupCache,
		lookupTTL:   lookupTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// SignUp registers a new user. The lookup-then-insert sequence is racy
// on its own; the unique index on email is the real guard, and its
// violation maps to the same ErrUserAlreadyExists the lookup produces.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (bool, error) {
	email = NormalizeEmail(email)

	_, err := s.users.FindByEmail(email)
	if err == nil {
		observability.RecordAuthSignup("exists")
		return false, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		observability.RecordAuthSignup("error")
		return false, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		observability.RecordAuthSignup("error")
		return false, err
	}

	user := &domain.User{Email: email, PasswordHash: hash}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			observability.RecordAuthSignup("exists")
			return false, ErrUserAlreadyExists
		}
		observability.RecordAuthSignup("error")
		return false, err
	}

	if err := s.lookupCache.InvalidateNamespace(ctx, emailLookupNamespace); err != nil {
		s.logger.Warn("invalidate lookup cache failed", "error", err)
	}
	observability.RecordAuthSignup("success")
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return true, nil
}

// Login verifies credentials and issues a signed token backed by a new
// ACTIVE session. Prior sessions for the user are untouched; concurrent
// sessions are permitted.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)

	if hit, err := s.lookupCache.Get(ctx, emailLookupNamespace, email); err != nil {
		s.logger.Warn("lookup cache unavailable", "error", err)
	} else if hit {
		observability.RecordAuthLogin("not_found_cached")
		return "", ErrUserNotFound
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			if cacheErr := s.lookupCache.Set(ctx, emailLookupNamespace, email, s.lookupTTL); cacheErr != nil {
				s.logger.Warn("lookup cache set failed", "error", cacheErr)
			}
			observability.RecordAuthLogin("not_found")
			return "", ErrUserNotFound
		}
		observability.RecordAuthLogin("error")
		return "", err
	}

	if err := s.hasher.Verify(password, user.PasswordHash); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			observability.RecordAuthLogin("wrong_password")
			return "", ErrWrongPassword
		}
		// Corrupt stored hash: a data fault, never reported as a wrong
		// password.
		observability.RecordAuthLogin("error")
		s.logger.ErrorContext(ctx, "stored password hash unusable", "user_id", user.ID, "error", err)
		return "", err
	}

	token, _, err := s.codec.Issue(user.ID)
	if err != nil {
		observability.RecordAuthLogin("error")
		return "", err
	}

	session := &domain.Session{UserID: user.ID, Token: token, State: domain.SessionStateActive}
	if err := s.sessions.Create(session); err != nil {
		if errors.Is(err, repository.ErrDuplicateToken) {
			s.logger.ErrorContext(ctx, "token collision on session create", "user_id", user.ID)
		}
		observability.RecordAuthLogin("error")
		return "", err
	}

	observability.RecordAuthLogin("success")
	s.logger.InfoContext(ctx, "login succeeded", "user_id", user.ID, "session_id", session.ID)
	return token, nil
}

// ValidateToken decides whether (userID, token) identifies a live
// session. The ledger is consulted first so a revoked or never-issued
// token fails even with a perfect signature; only then is the signature
// verified and the server-side expiry enforced. Observing an expired
// claim transitions the session to EXPIRED exactly once.
func (s *AuthService) ValidateToken(ctx context.Context, userID uint, token string) (bool, error) {
	session, err := s.sessions.FindByTokenAndUser(token, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			observability.RecordTokenValidation("unknown_session")
			return false, nil
		}
		observability.RecordTokenValidation("error")
		return false, err
	}

	claims, err := s.codec.Parse(token)
	if err != nil {
		// A recorded session with an unverifiable token means tampering
		// or a rotated key. Reject, but never echo the cause outward.
		observability.RecordTokenValidation("bad_signature")
		s.logger.DebugContext(ctx, "token rejected", "user_id", userID, "reason", err)
		return false, nil
	}
	if claims.UserID != userID {
		observability.RecordTokenValidation("subject_mismatch")
		return false, nil
	}

	if s.now().UnixMilli() > claims.ExpiresAtMillis {
		if err := s.sessions.MarkExpired(session.ID); err != nil {
			observability.RecordTokenValidation("error")
			return false, err
		}
		observability.RecordTokenValidation("expired")
		return false, nil
	}

	observability.RecordTokenValidation("valid")
	return true, nil
}

// NormalizeEmail fixes the case-sensitivity policy: emails are unique
// and compared case-insensitively, lowercased at write and read.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
