package relational

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

const pgUniqueViolation = "23505"

// translateError turns driver-specific unique violations into
// *domain.DuplicateFieldError and wraps everything else with op.
func translateError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &domain.DuplicateFieldError{Field: fieldFromConstraint(pgErr.ConstraintName)}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return &domain.DuplicateFieldError{Field: fieldFromSQLiteMessage(liteErr.Error())}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// fieldFromConstraint maps "users_email_key" to "email".
func fieldFromConstraint(name string) string {
	return strings.TrimSuffix(strings.TrimPrefix(name, "users_"), "_key")
}

// fieldFromSQLiteMessage maps "UNIQUE constraint failed: users.email" to "email".
func fieldFromSQLiteMessage(msg string) string {
	if i := strings.LastIndex(msg, "users."); i >= 0 {
		field := msg[i+len("users."):]
		if j := strings.IndexAny(field, ", "); j >= 0 {
			field = field[:j]
		}
		return field
	}
	return ""
}
