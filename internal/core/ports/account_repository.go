package ports

import (
	"context"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

// AccountStore is the narrow lookup surface the authentication gate needs.
// Both methods return domain.ErrAccountNotFound when nothing matches.
type AccountStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
}

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	AccountStore

	// Create persists a new account and returns it with the store-assigned ID.
	// Uniqueness violations are reported as *domain.DuplicateFieldError.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// List returns a page of accounts read from the user view, ordered by ID.
	// Returned accounts never carry a password hash.
	List(ctx context.Context, skip, limit int) ([]*domain.Account, error)
	// Replace overwrites every mutable field of the account with the given ID.
	// An empty PasswordHash keeps the stored one.
	Replace(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, id int64, patch domain.AccountPatch) (*domain.Account, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
