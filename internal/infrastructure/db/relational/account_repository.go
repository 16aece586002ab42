package relational

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

const (
	accountColumns = "id, username, hashed_password, email, full_name, age, city, country, phone_number, is_active"
	viewColumns    = "id, username, email, full_name, age, city, country, phone_number, is_active"
)

// AccountRepository implements ports.AccountRepository on top of sqlx. Writes
// go to the users table; listings read the user_view view, which has no
// password column.
type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

type accountRow struct {
	ID             int64   `db:"id"`
	Username       string  `db:"username"`
	HashedPassword string  `db:"hashed_password"`
	Email          string  `db:"email"`
	FullName       *string `db:"full_name"`
	Age            *int    `db:"age"`
	City           *string `db:"city"`
	Country        *string `db:"country"`
	PhoneNumber    *string `db:"phone_number"`
	IsActive       bool    `db:"is_active"`
}

func (r accountRow) toDomain() *domain.Account {
	return &domain.Account{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.HashedPassword,
		Email:        r.Email,
		FullName:     r.FullName,
		Age:          r.Age,
		City:         r.City,
		Country:      r.Country,
		PhoneNumber:  r.PhoneNumber,
		Active:       r.IsActive,
	}
}

// Create inserts a new account and returns it with its assigned ID.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := r.db.Rebind(`INSERT INTO users
		(username, hashed_password, email, full_name, age, city, country, phone_number, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		a.Username, a.PasswordHash, a.Email, a.FullName, a.Age, a.City, a.Country, a.PhoneNumber, a.Active,
	).Scan(&id)
	if err != nil {
		return nil, translateError("insert account", err)
	}

	created := *a
	created.ID = id
	return &created, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *AccountRepository) findOne(ctx context.Context, where string, arg any) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row accountRow
	query := r.db.Rebind("SELECT " + accountColumns + " FROM users WHERE " + where)
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, translateError("find account", err)
	}
	return row.toDomain(), nil
}

// List returns a page of the user view ordered by ID.
func (r *AccountRepository) List(ctx context.Context, skip, limit int) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []accountRow
	query := r.db.Rebind("SELECT " + viewColumns + " FROM user_view ORDER BY id LIMIT ? OFFSET ?")
	if err := r.db.SelectContext(ctx, &rows, query, limit, skip); err != nil {
		return nil, translateError("list accounts", err)
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.toDomain())
	}
	return accounts, nil
}

// Replace overwrites every mutable column. An empty PasswordHash keeps the
// stored hash.
func (r *AccountRepository) Replace(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	sets := []string{"username = ?", "email = ?", "full_name = ?", "age = ?", "city = ?", "country = ?", "phone_number = ?", "is_active = ?"}
	args := []any{a.Username, a.Email, a.FullName, a.Age, a.City, a.Country, a.PhoneNumber, a.Active}
	if a.PasswordHash != "" {
		sets = append(sets, "hashed_password = ?")
		args = append(args, a.PasswordHash)
	}

	if err := r.update(ctx, a.ID, sets, args); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, a.ID)
}

// Update changes only the columns set in patch.
func (r *AccountRepository) Update(ctx context.Context, id int64, patch domain.AccountPatch) (*domain.Account, error) {
	if patch.Empty() {
		return r.FindByID(ctx, id)
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.Username != nil {
		add("username", *patch.Username)
	}
	if patch.PasswordHash != nil {
		add("hashed_password", *patch.PasswordHash)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.FullName != nil {
		add("full_name", *patch.FullName)
	}
	if patch.Age != nil {
		add("age", *patch.Age)
	}
	if patch.City != nil {
		add("city", *patch.City)
	}
	if patch.Country != nil {
		add("country", *patch.Country)
	}
	if patch.PhoneNumber != nil {
		add("phone_number", *patch.PhoneNumber)
	}
	if patch.Active != nil {
		add("is_active", *patch.Active)
	}

	if err := r.update(ctx, id, sets, args); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *AccountRepository) update(ctx context.Context, id int64, sets []string, args []any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := r.db.Rebind("UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	res, err := r.db.ExecContext(ctx, query, append(args, id)...)
	if err != nil {
		return translateError("update account", err)
	}
	return requireRow(res)
}

// Delete removes the account row permanently.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return translateError("delete account", err)
	}
	return requireRow(res)
}

func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return translateError("rows affected", err)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
