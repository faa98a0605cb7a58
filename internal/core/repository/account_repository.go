package repository

import (
	"context"

	"github.com/mwestin/accountd/internal/api/util"
	"github.com/mwestin/accountd/internal/core/domain"
)

// AccountFilter carries filtering/pagination options for account listings.
type AccountFilter struct {
	util.ListFilter
}

// AccountRepository is the persistence contract for accounts. Create relies on
// the storage engine's unique indexes for username/email coordination; there
// is no check-then-insert sequence anywhere above it.
type AccountRepository interface {
	// Create inserts a new account. Returns *domain.DuplicateKeyError when the
	// username or email collides with an existing account.
	Create(ctx context.Context, account *domain.Account) error
	// FindByUsername does an exact point lookup. Returns an error wrapping
	// domain.ErrAccountNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// FindByID looks up an account by its opaque identifier.
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, error)
	Count(ctx context.Context, filter AccountFilter) (int, error)
	Delete(ctx context.Context, username string) error
}
