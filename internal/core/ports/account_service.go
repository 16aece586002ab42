package ports

import (
	"context"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

// ProfileInput holds the optional profile fields of an account.
type ProfileInput struct {
	FullName    *string
	Age         *int
	City        *string
	Country     *string
	PhoneNumber *string
}

// CreateAccountInput carries everything needed to register an account.
type CreateAccountInput struct {
	Username string
	Password string
	Email    string
	Profile  ProfileInput
	// Active defaults to true when nil.
	Active         *bool
	IdempotencyKey string
}

// CreateAccountResult is returned by AccountService.Create.
type CreateAccountResult struct {
	Account *domain.Account
	// AlreadyExisted is true when the Idempotency-Key matched an earlier create.
	AlreadyExisted bool
}

// ReplaceAccountInput is a full replacement of an account. Profile fields left
// nil are cleared. Password is optional; empty keeps the current hash.
type ReplaceAccountInput struct {
	Username string
	Password string
	Email    string
	Profile  ProfileInput
	Active   *bool
}

// PatchAccountInput changes only the fields that are set.
type PatchAccountInput struct {
	Username *string
	Password *string
	Email    *string
	Profile  ProfileInput
	Active   *bool
}

// ListAccountsInput carries pagination parameters.
type ListAccountsInput struct {
	Skip  int
	Limit int
}

// ListAccountsResult is a single page of accounts.
type ListAccountsResult struct {
	Message string
	IDs     []int64
	Items   []*domain.Account
	Skip    int
	Limit   int
}

// AccountService defines the account CRUD use cases.
type AccountService interface {
	Create(ctx context.Context, input CreateAccountInput) (*CreateAccountResult, error)
	Get(ctx context.Context, id int64) (*domain.Account, error)
	List(ctx context.Context, input ListAccountsInput) (*ListAccountsResult, error)
	Replace(ctx context.Context, id int64, input ReplaceAccountInput) (*domain.Account, error)
	Patch(ctx context.Context, id int64, input PatchAccountInput) (*domain.Account, error)
	Delete(ctx context.Context, id int64) error
}
