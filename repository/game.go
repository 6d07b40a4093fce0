package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Ex1s9/game-catalog/domain"
)

// Sort selects the ordering of a catalog scan. Both modes break ties by id
// so page boundaries stay deterministic.
type Sort string

const (
	// SortNewest orders by created_at descending. The default.
	SortNewest Sort = "newest"
	// SortPopular orders by average_rating descending, then purchase_count
	// descending. Used by the category-browse and popularity views.
	SortPopular Sort = "popular"
)

// Pagination limits.
const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 20
)

// GameFilter describes one catalog scan. Every dimension is optional and
// conjunctive: a zero-valued dimension imposes no constraint. Exclusion of
// soft-deleted rows is implicit and always applied.
type GameFilter struct {
	DeveloperID string
	// Categories matches by set overlap, not subset.
	Categories []domain.Category
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Status     *domain.Status
	// Query is a case-insensitive token match against the game name.
	Query string

	Sort   Sort
	Limit  int
	Offset int
}

// ClampedLimit returns the page size forced into [MinLimit, MaxLimit].
func (f GameFilter) ClampedLimit() int {
	switch {
	case f.Limit < MinLimit:
		return DefaultLimit
	case f.Limit > MaxLimit:
		return MaxLimit
	default:
		return f.Limit
	}
}

// ClampedOffset returns the cursor forced to be non-negative.
func (f GameFilter) ClampedOffset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}

// GameRepository is the entity store for catalog rows. It is the only
// writer of persisted game state.
//
// Aggregate operations (RecordRating, RecordPurchase, screenshot mutations)
// must execute as one atomic read-modify-write against the row: concurrent
// calls for the same id serialize, calls for different ids never contend.
type GameRepository interface {
	// Insert assigns timestamps and persists a new game. Returns
	// domain.ErrGameExists when a uniqueness constraint is violated.
	Insert(ctx context.Context, game *domain.Game) (*domain.Game, error)

	// GetByID returns the live row or domain.ErrGameNotFound. Soft-deleted
	// rows are invisible here.
	GetByID(ctx context.Context, id string) (*domain.Game, error)

	// ApplyPatch overwrites exactly the fields present in patch and
	// refreshes updated_at, returning the post-state atomically.
	ApplyPatch(ctx context.Context, id string, patch domain.GamePatch) (*domain.Game, error)

	// SoftDelete marks the row deleted when both id and owner match a live
	// row. A false return does not distinguish wrong owner from a missing
	// row; that ambiguity is part of the contract.
	SoftDelete(ctx context.Context, id, developerID string) (bool, error)

	// Scan returns one page of live rows matching filter plus the true
	// total of matching rows ignoring the window. Page and total are
	// computed from the identical predicate.
	Scan(ctx context.Context, filter GameFilter) ([]domain.Game, int, error)

	// RecordRating folds value into the running average:
	// new_avg = (avg*count + value) / (count+1), then count += 1.
	RecordRating(ctx context.Context, id string, value decimal.Decimal) error

	// RecordPurchase increments purchase_count by exactly one.
	RecordPurchase(ctx context.Context, id string) error

	// AppendScreenshot appends url to the ordered sequence. Duplicates are
	// kept.
	AppendScreenshot(ctx context.Context, id, url string) error

	// RemoveScreenshot drops every occurrence of url. Removing an absent
	// url succeeds; updated_at still advances.
	RemoveScreenshot(ctx context.Context, id, url string) error
}

// GameCache is a read-through snapshot cache keyed by game id. Writes to a
// game must invalidate its entry.
type GameCache interface {
	Get(ctx context.Context, id string) (*domain.Game, error)
	Set(ctx context.Context, game *domain.Game) error
	Invalidate(ctx context.Context, id string) error
}
