package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mwestin/accountd/internal/core/domain"
	"github.com/mwestin/accountd/internal/core/repository"
	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type accountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO account (id, username, password_hash, first_name, last_name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.Email,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if field, ok := uniqueViolationField(err); ok {
			return &domain.DuplicateKeyError{Field: field}
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// uniqueViolationField inspects a driver error and names the account column
// whose unique index was violated. The insert itself is the only uniqueness
// check; there is no read-before-write.
func uniqueViolationField(err error) (string, bool) {
	var driverErr *sqlitedriver.Error
	if !errors.As(err, &driverErr) || driverErr.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return "", false
	}
	msg := driverErr.Error()
	switch {
	case strings.Contains(msg, "account.username"):
		return "username", true
	case strings.Contains(msg, "account.email"):
		return "email", true
	}
	return "", false
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `
		SELECT id, username, password_hash, first_name, last_name, email, created_at, updated_at
		FROM account
		WHERE username = ?
	`
	var account domain.Account
	err := r.db.GetContext(ctx, &account, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT id, username, password_hash, first_name, last_name, email, created_at, updated_at
		FROM account
		WHERE id = ?
	`
	var account domain.Account
	err := r.db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) List(ctx context.Context, filter repository.AccountFilter) ([]*domain.Account, error) {
	query := `
		SELECT id, username, password_hash, first_name, last_name, email, created_at, updated_at
		FROM account
		WHERE 1=1
	`
	var args []interface{}

	query, args = ApplyFilters(query, args, filter.Filters)
	query = ApplyOrdering(query, filter.Order, "username ASC")
	query, args = ApplyPagination(query, args, filter.Page, filter.PerPage)

	var accounts []*domain.Account
	if err := r.db.SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) Count(ctx context.Context, filter repository.AccountFilter) (int, error) {
	query := `SELECT COUNT(*) FROM account WHERE 1=1`
	var args []interface{}

	query, args = ApplyFilters(query, args, filter.Filters)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

func (r *accountRepository) Delete(ctx context.Context, username string) error {
	query := `DELETE FROM account WHERE username = ?`
	result, err := r.db.ExecContext(ctx, query, username)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, username)
	}

	return nil
}
