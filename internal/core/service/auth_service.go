package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/accounts-api/internal/api/metrics"
	"github.com/99minutos/accounts-api/internal/core/domain"
	"github.com/99minutos/accounts-api/internal/core/ports"
	"github.com/99minutos/accounts-api/pkg/logger"
)

// DefaultTokenTTL is the lifetime of tokens issued at login.
const DefaultTokenTTL = 30 * time.Minute

// dummyPassword is hashed once per AuthService so that logins for unknown
// usernames spend the same bcrypt time as logins with a wrong password.
const dummyPassword = "not-a-real-password"

// AuthService implements login and per-request authentication.
type AuthService struct {
	store     ports.AccountStore
	hasher    ports.PasswordHasher
	tokens    ports.TokenService
	tokenTTL  time.Duration
	dummyHash string
	log       zerolog.Logger
}

func NewAuthService(
	store ports.AccountStore,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	tokenTTL time.Duration,
	log zerolog.Logger,
) (*AuthService, error) {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	return &AuthService{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		tokenTTL:  tokenTTL,
		dummyHash: dummyHash,
		log:       log,
	}, nil
}

// Login checks the username/password pair and issues a session token.
// Unknown usernames and wrong passwords both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	log := logger.FromContext(ctx, s.log)

	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalidCredentials).Inc()
		return "", domain.ErrInvalidCredentials
	}

	account, err := s.store.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		s.hasher.Verify(password, s.dummyHash)
		metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalidCredentials).Inc()
		log.Info().Str("username", username).Msg("login rejected")
		return "", domain.ErrInvalidCredentials
	case err != nil:
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return "", fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalidCredentials).Inc()
		log.Info().Str("username", username).Msg("login rejected")
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.Username, s.tokenTTL)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return "", fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Info().Str("username", account.Username).Int64("account_id", account.ID).Msg("token issued")
	return token, nil
}

// Authenticate resolves a bearer token to an active account.
//
//	Unauthenticated → TokenVerified → AccountResolved → Active
//
// Token failures and vanished accounts return ErrInvalidCredentials; a
// resolved but disabled account returns ErrInactiveAccount.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	log := logger.FromContext(ctx, s.log)

	subject, err := s.tokens.Verify(token)
	if err != nil {
		metrics.AuthenticationsTotal.WithLabelValues(metrics.ResultInvalidCredentials).Inc()
		log.Debug().Err(err).Msg("token rejected")
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.store.FindByUsername(ctx, subject)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		metrics.AuthenticationsTotal.WithLabelValues(metrics.ResultInvalidCredentials).Inc()
		log.Info().Str("username", subject).Msg("token subject no longer exists")
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		metrics.AuthenticationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !account.Active {
		metrics.AuthenticationsTotal.WithLabelValues(metrics.ResultInactive).Inc()
		return nil, domain.ErrInactiveAccount
	}

	metrics.AuthenticationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return account, nil
}
