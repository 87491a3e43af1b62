package service

import "context"

// Authenticator is the engine surface consumed by the HTTP layer.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (bool, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, userID uint, token string) (bool, error)
}
