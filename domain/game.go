package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Game is the central catalog entity. Aggregate fields (RatingCount,
// AverageRating, PurchaseCount) are derived and only ever mutated through
// the store's atomic aggregate operations, never set by callers.
type Game struct {
	ID          string   `json:"id"`
	DeveloperID string   `json:"developer_id"`
	PublisherID string   `json:"publisher_id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CoverImage  string   `json:"cover_image"`
	TrailerURL  string   `json:"trailer_url,omitempty"`
	ReleaseDate time.Time `json:"release_date"`

	// Price is exact fixed-point. float64 loses precision on round-trip and
	// must never carry it.
	Price decimal.Decimal `json:"price"`

	Categories  []Category `json:"categories"`
	Tags        []string   `json:"tags,omitempty"`
	Platforms   []string   `json:"platforms,omitempty"`
	Screenshots []string   `json:"screenshots,omitempty"`

	Status Status `json:"status"`

	RatingCount   int32           `json:"rating_count"`
	AverageRating decimal.Decimal `json:"average_rating"`
	PurchaseCount int32           `json:"purchase_count"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// IsLive reports whether the game is visible to read paths.
func (g *Game) IsLive() bool {
	return g != nil && g.DeletedAt == nil
}

// OwnedBy reports whether developerID owns the game.
func (g *Game) OwnedBy(developerID string) bool {
	return g != nil && g.DeveloperID == developerID
}

// ValidateForCreate checks the invariants a new game must satisfy before
// the store is touched: required identity, non-empty name, at least one
// real category, non-negative price.
func (g *Game) ValidateForCreate() error {
	if g == nil {
		return ErrInvalidPayload
	}
	if _, err := uuid.Parse(g.DeveloperID); err != nil {
		return NewError(ErrCodeInvalid, "developer_id must be a valid uuid")
	}
	if g.PublisherID != "" {
		if _, err := uuid.Parse(g.PublisherID); err != nil {
			return NewError(ErrCodeInvalid, "publisher_id must be a valid uuid")
		}
	}
	if g.Name == "" {
		return NewError(ErrCodeInvalid, "name is required")
	}
	if len(g.Categories) == 0 {
		return NewError(ErrCodeInvalid, "at least one category is required")
	}
	for _, c := range g.Categories {
		if !c.Valid() {
			return NewError(ErrCodeInvalid, "unknown category "+c.String())
		}
	}
	if g.Price.IsNegative() {
		return NewError(ErrCodeInvalid, "price must not be negative")
	}
	// The stored column carries two fractional digits; finer values would
	// be silently rounded, so they are rejected instead.
	if !g.Price.Equal(g.Price.Round(2)) {
		return NewError(ErrCodeInvalid, "price must have at most 2 decimal places")
	}
	return nil
}

// GamePatch carries field-level partial updates. A nil field leaves the
// stored value unchanged. TrailerURL and PublisherID are the only nullable
// fields: the empty string clears them.
type GamePatch struct {
	Name        *string
	Description *string
	CoverImage  *string
	TrailerURL  *string
	PublisherID *string
	ReleaseDate *time.Time
	Price       *decimal.Decimal
	Status      *Status
	Categories  *[]Category
	Tags        *[]string
	Platforms   *[]string
}

// IsZero reports whether the patch touches nothing.
func (p GamePatch) IsZero() bool {
	return p.Name == nil && p.Description == nil && p.CoverImage == nil &&
		p.TrailerURL == nil && p.PublisherID == nil && p.ReleaseDate == nil &&
		p.Price == nil && p.Status == nil && p.Categories == nil &&
		p.Tags == nil && p.Platforms == nil
}

// Validate checks the patched values without consulting stored state.
func (p GamePatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return NewError(ErrCodeInvalid, "name must not be empty")
	}
	if p.Price != nil {
		if p.Price.IsNegative() {
			return NewError(ErrCodeInvalid, "price must not be negative")
		}
		if !p.Price.Equal(p.Price.Round(2)) {
			return NewError(ErrCodeInvalid, "price must have at most 2 decimal places")
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return NewError(ErrCodeInvalid, "unknown status "+p.Status.String())
	}
	if p.Categories != nil {
		if len(*p.Categories) == 0 {
			return NewError(ErrCodeInvalid, "categories must not be emptied")
		}
		for _, c := range *p.Categories {
			if !c.Valid() {
				return NewError(ErrCodeInvalid, "unknown category "+c.String())
			}
		}
	}
	if p.PublisherID != nil && *p.PublisherID != "" {
		if _, err := uuid.Parse(*p.PublisherID); err != nil {
			return NewError(ErrCodeInvalid, "publisher_id must be a valid uuid")
		}
	}
	return nil
}

// RatingBounds delimit an acceptable rating value, inclusive.
var (
	RatingMin = decimal.Zero
	RatingMax = decimal.NewFromInt(5)
)

// ValidRating reports whether value is inside [0, 5].
func ValidRating(value decimal.Decimal) bool {
	return value.Cmp(RatingMin) >= 0 && value.Cmp(RatingMax) <= 0
}
