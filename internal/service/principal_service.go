package service

import (
	"context"
	"errors"

	"github.com/authstack/userauth/internal/repository"
	"github.com/authstack/userauth/internal/security"
)

var ErrPrincipalNotFound = errors.New("principal not found")

// PrincipalStore is the single-method capability an external
// authentication framework consumes to resolve a principal by its
// identifier (here, the email).
type PrincipalStore interface {
	LoadPrincipal(ctx context.Context, identifier string) (*security.Principal, error)
}

type UserPrincipalStore struct {
	users repository.UserRepository
}

func NewUserPrincipalStore(users repository.UserRepository) *UserPrincipalStore {
	return &UserPrincipalStore{users: users}
}

func (s *UserPrincipalStore) LoadPrincipal(_ context.Context, identifier string) (*security.Principal, error) {
	user, err := s.users.FindByEmail(NormalizeEmail(identifier))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}
	return security.NewPrincipal(*user), nil
}
