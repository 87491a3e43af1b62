//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/authstack/userauth/internal/config"
	"github.com/authstack/userauth/internal/http/handler"
	"github.com/authstack/userauth/internal/repository"
	"github.com/authstack/userauth/internal/service"
)

// InitializeApp assembles the full service graph from configuration.
func InitializeApp(ctx context.Context) (*App, error) {
	wire.Build(
		config.Load,
		provideObservability,
		provideLogger,
		provideDatabase,
		provideRedis,
		provideLookupCache,
		providePasswordHasher,
		provideTokenCodec,
		repository.NewUserRepository,
		repository.NewSessionRepository,
		provideAuthService,
		wire.Bind(new(service.Authenticator), new(*service.AuthService)),
		service.NewSessionMaintenanceService,
		handler.NewAuthHandler,
		handler.NewUserHandler,
		provideReadiness,
		provideRouter,
		provideServer,
		newApp,
	)
	return nil, nil
}
