package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/accounts-api/internal/api/metrics"
	"github.com/99minutos/accounts-api/internal/core/domain"
	"github.com/99minutos/accounts-api/internal/core/ports"
	"github.com/99minutos/accounts-api/pkg/logger"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 100

	listMessage = "List of users"
)

// AccountService implements the account CRUD use cases.
type AccountService struct {
	repo        ports.AccountRepository
	hasher      ports.PasswordHasher
	idempotency ports.IdempotencyStore // nil disables Idempotency-Key handling
	log         zerolog.Logger
}

func NewAccountService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	idempotency ports.IdempotencyStore,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{repo: repo, hasher: hasher, idempotency: idempotency, log: log}
}

// Create registers a new account. The plaintext password is hashed before it
// reaches the repository. If an idempotency key is provided and already seen,
// the previously created account is returned without side effects.
func (s *AccountService) Create(ctx context.Context, input ports.CreateAccountInput) (*ports.CreateAccountResult, error) {
	log := logger.FromContext(ctx, s.log)

	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrInvalidAccount)
	}

	if existing := s.replay(ctx, log, input.IdempotencyKey); existing != nil {
		metrics.OperationsTotal.WithLabelValues("create", metrics.ResultReplay).Inc()
		return &ports.CreateAccountResult{Account: existing, AlreadyExisted: true}, nil
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAccount, err)
	}

	account := &domain.Account{
		Username:     input.Username,
		PasswordHash: hash,
		Email:        input.Email,
		Active:       true,
	}
	applyProfile(account, input.Profile)
	if input.Active != nil {
		account.Active = *input.Active
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		s.count("create", err)
		if !errors.Is(err, domain.ErrDuplicateField) {
			log.Error().Err(err).Str("username", input.Username).Msg("failed to create account")
		}
		return nil, err
	}

	if input.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, input.IdempotencyKey, created.ID); err != nil {
			log.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	metrics.OperationsTotal.WithLabelValues("create", metrics.ResultSuccess).Inc()
	log.Info().Int64("account_id", created.ID).Str("username", created.Username).Msg("account created")
	return &ports.CreateAccountResult{Account: created}, nil
}

// replay returns the account an earlier request with the same idempotency key
// created, or nil. Store failures are logged and treated as a miss.
func (s *AccountService) replay(ctx context.Context, log zerolog.Logger, key string) *domain.Account {
	if key == "" || s.idempotency == nil {
		return nil
	}

	id, found, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("idempotency_key", key).Int64("account_id", id).Msg("idempotent account vanished")
		return nil
	}
	log.Info().Str("idempotency_key", key).Int64("account_id", id).Msg("idempotent replay")
	return existing
}

func (s *AccountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	s.count("get", err)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// List returns one page of the user view. A non-positive limit means the
// default page size; limits above maxPageLimit are capped.
func (s *AccountService) List(ctx context.Context, input ports.ListAccountsInput) (*ports.ListAccountsResult, error) {
	skip := input.Skip
	if skip < 0 {
		skip = 0
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, err := s.repo.List(ctx, skip, limit)
	s.count("list", err)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for _, a := range items {
		ids = append(ids, a.ID)
	}

	return &ports.ListAccountsResult{
		Message: listMessage,
		IDs:     ids,
		Items:   items,
		Skip:    skip,
		Limit:   limit,
	}, nil
}

// Replace overwrites the account. Profile fields left nil are cleared; the
// password is re-hashed only when a new one is given.
func (s *AccountService) Replace(ctx context.Context, id int64, input ports.ReplaceAccountInput) (*domain.Account, error) {
	if input.Username == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: username and email are required", domain.ErrInvalidAccount)
	}

	account := &domain.Account{
		ID:       id,
		Username: input.Username,
		Email:    input.Email,
		Active:   true,
	}
	applyProfile(account, input.Profile)
	if input.Active != nil {
		account.Active = *input.Active
	}
	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAccount, err)
		}
		account.PasswordHash = hash
	}

	updated, err := s.repo.Replace(ctx, account)
	s.count("replace", err)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, s.log)
	log.Info().Int64("account_id", id).Msg("account replaced")
	return updated, nil
}

// Patch changes only the fields set in input.
func (s *AccountService) Patch(ctx context.Context, id int64, input ports.PatchAccountInput) (*domain.Account, error) {
	if isBlank(input.Username) || isBlank(input.Email) || isBlank(input.Password) {
		return nil, fmt.Errorf("%w: username, email and password cannot be empty", domain.ErrInvalidAccount)
	}

	patch := domain.AccountPatch{
		Username:    input.Username,
		Email:       input.Email,
		FullName:    input.Profile.FullName,
		Age:         input.Profile.Age,
		City:        input.Profile.City,
		Country:     input.Profile.Country,
		PhoneNumber: input.Profile.PhoneNumber,
		Active:      input.Active,
	}
	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAccount, err)
		}
		patch.PasswordHash = &hash
	}

	updated, err := s.repo.Update(ctx, id, patch)
	s.count("patch", err)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, s.log)
	log.Info().Int64("account_id", id).Msg("account updated")
	return updated, nil
}

// Delete removes the account permanently.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	s.count("delete", err)
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx, s.log)
	log.Info().Int64("account_id", id).Msg("account deleted")
	return nil
}

func (s *AccountService) count(operation string, err error) {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrDuplicateField):
		result = metrics.ResultDuplicate
	case errors.Is(err, domain.ErrAccountNotFound):
		result = metrics.ResultNotFound
	default:
		result = metrics.ResultError
	}
	metrics.OperationsTotal.WithLabelValues(operation, result).Inc()
}

func applyProfile(a *domain.Account, p ports.ProfileInput) {
	a.FullName = p.FullName
	a.Age = p.Age
	a.City = p.City
	a.Country = p.Country
	a.PhoneNumber = p.PhoneNumber
}

func isBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}
