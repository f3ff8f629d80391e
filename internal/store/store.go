// Package store is the persistence boundary of the sync engine. The engine
// only needs document-style find/save semantics; this implementation rides
// on ClickHouse ReplacingMergeTree tables where every save is an insert and
// the newest updated_at wins, which doubles as the storage-layer defense
// against two concurrent runs adding the same URL.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/sol-flex/aijobcareer/internal/models"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountFilter narrows which accounts a run syncs. Zero value means every
// account whose platform is known or detectable.
type AccountFilter struct {
	// Name restricts the run to one account, exact match.
	Name string
	// Category restricts to accounts carrying the category tag.
	Category string
	// SyncedBefore restricts to accounts last synced before the cutoff.
	SyncedBefore time.Time
}

type Store interface {
	Accounts(ctx context.Context, filter AccountFilter) ([]models.Account, error)
	// Account fetches one account by exact name; ErrAccountNotFound when
	// absent.
	Account(ctx context.Context, name string) (*models.Account, error)
	SaveAccount(ctx context.Context, account *models.Account) error

	// ActiveListings returns the non-removed listings for one account: the
	// stored side of the reconciliation diff.
	ActiveListings(ctx context.Context, account string) ([]models.CanonicalListing, error)
	SaveListing(ctx context.Context, listing *models.CanonicalListing) error

	// MarkRemoved soft-removes a listing: the row is re-versioned with the
	// removed flag and timestamp, never deleted.
	MarkRemoved(ctx context.Context, listing *models.CanonicalListing, at time.Time) error

	Close() error
}
