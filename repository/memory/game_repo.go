// Package memory provides an in-process GameRepository with the same
// observable contract as the Postgres implementation. It backs unit tests
// and local runs without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ex1s9/game-catalog/domain"
	"github.com/Ex1s9/game-catalog/repository"
)

type gameRepository struct {
	mu    sync.RWMutex
	games map[string]*domain.Game
}

// NewGameRepository returns an empty in-memory store.
func NewGameRepository() repository.GameRepository {
	return &gameRepository{games: make(map[string]*domain.Game)}
}

func (r *gameRepository) Insert(ctx context.Context, game *domain.Game) (*domain.Game, error) {
	if game == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if game.ID == "" {
		game.ID = uuid.NewString()
	}
	// Same uniqueness rule as the games_developer_name_live_idx index.
	for _, existing := range r.games {
		if existing.IsLive() &&
			existing.DeveloperID == game.DeveloperID &&
			strings.EqualFold(existing.Name, game.Name) {
			return nil, domain.ErrGameExists
		}
	}
	if _, ok := r.games[game.ID]; ok {
		return nil, domain.ErrGameExists
	}

	now := time.Now()
	game.CreatedAt = now
	game.UpdatedAt = now
	r.games[game.ID] = clone(game)
	return clone(game), nil
}

func (r *gameRepository) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	game, ok := r.games[id]
	if !ok || !game.IsLive() {
		return nil, domain.ErrGameNotFound
	}
	return clone(game), nil
}

func (r *gameRepository) ApplyPatch(ctx context.Context, id string, patch domain.GamePatch) (*domain.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	game, ok := r.games[id]
	if !ok || !game.IsLive() {
		return nil, domain.ErrGameNotFound
	}

	if patch.Name != nil {
		game.Name = *patch.Name
	}
	if patch.Description != nil {
		game.Description = *patch.Description
	}
	if patch.CoverImage != nil {
		game.CoverImage = *patch.CoverImage
	}
	if patch.TrailerURL != nil {
		game.TrailerURL = *patch.TrailerURL
	}
	if patch.PublisherID != nil {
		game.PublisherID = *patch.PublisherID
	}
	if patch.ReleaseDate != nil {
		game.ReleaseDate = *patch.ReleaseDate
	}
	if patch.Price != nil {
		game.Price = *patch.Price
	}
	if patch.Status != nil {
		game.Status = *patch.Status
	}
	if patch.Categories != nil {
		game.Categories = append([]domain.Category(nil), *patch.Categories...)
	}
	if patch.Tags != nil {
		game.Tags = append([]string(nil), *patch.Tags...)
	}
	if patch.Platforms != nil {
		game.Platforms = append([]string(nil), *patch.Platforms...)
	}
	game.UpdatedAt = time.Now()

	return clone(game), nil
}

func (r *gameRepository) SoftDelete(ctx context.Context, id, developerID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	game, ok := r.games[id]
	if !ok || !game.IsLive() || !game.OwnedBy(developerID) {
		return false, nil
	}

	now := time.Now()
	game.DeletedAt = &now
	game.UpdatedAt = now
	return true, nil
}

func (r *gameRepository) Scan(ctx context.Context, filter repository.GameFilter) ([]domain.Game, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Game
	for _, game := range r.games {
		if game.IsLive() && matches(game, filter) {
			matched = append(matched, game)
		}
	}

	orderGames(matched, filter.Sort)
	total := len(matched)

	offset := filter.ClampedOffset()
	if offset >= total {
		return nil, total, nil
	}
	end := offset + filter.ClampedLimit()
	if end > total {
		end = total
	}

	page := make([]domain.Game, 0, end-offset)
	for _, game := range matched[offset:end] {
		page = append(page, *clone(game))
	}
	return page, total, nil
}

func (r *gameRepository) RecordRating(ctx context.Context, id string, value decimal.Decimal) error {
	return r.mutateLive(ctx, id, func(game *domain.Game) {
		count := decimal.NewFromInt(int64(game.RatingCount))
		game.AverageRating = game.AverageRating.Mul(count).Add(value).
			Div(count.Add(decimal.NewFromInt(1)))
		game.RatingCount++
	})
}

func (r *gameRepository) RecordPurchase(ctx context.Context, id string) error {
	return r.mutateLive(ctx, id, func(game *domain.Game) {
		game.PurchaseCount++
	})
}

func (r *gameRepository) AppendScreenshot(ctx context.Context, id, url string) error {
	return r.mutateLive(ctx, id, func(game *domain.Game) {
		game.Screenshots = append(game.Screenshots, url)
	})
}

func (r *gameRepository) RemoveScreenshot(ctx context.Context, id, url string) error {
	return r.mutateLive(ctx, id, func(game *domain.Game) {
		kept := game.Screenshots[:0]
		for _, s := range game.Screenshots {
			if s != url {
				kept = append(kept, s)
			}
		}
		game.Screenshots = kept
	})
}

// mutateLive applies fn to the live row under the write lock, mirroring the
// single-statement atomicity of the SQL aggregate updates.
func (r *gameRepository) mutateLive(ctx context.Context, id string, fn func(*domain.Game)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	game, ok := r.games[id]
	if !ok || !game.IsLive() {
		return domain.ErrGameNotFound
	}
	fn(game)
	game.UpdatedAt = time.Now()
	return nil
}

func matches(game *domain.Game, filter repository.GameFilter) bool {
	if filter.DeveloperID != "" && game.DeveloperID != filter.DeveloperID {
		return false
	}
	if len(filter.Categories) > 0 && !overlaps(game.Categories, filter.Categories) {
		return false
	}
	if filter.MinPrice != nil && game.Price.Cmp(*filter.MinPrice) < 0 {
		return false
	}
	if filter.MaxPrice != nil && game.Price.Cmp(*filter.MaxPrice) > 0 {
		return false
	}
	if filter.Status != nil && game.Status != *filter.Status {
		return false
	}
	if filter.Query != "" && !matchesQuery(game.Name, filter.Query) {
		return false
	}
	return true
}

func overlaps(have, want []domain.Category) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

// matchesQuery is the in-process stand-in for the text-search primitive:
// every query token must appear in the name, case-insensitively.
func matchesQuery(name, query string) bool {
	lowered := strings.ToLower(name)
	for _, token := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(lowered, token) {
			return false
		}
	}
	return true
}

func orderGames(games []*domain.Game, sortMode repository.Sort) {
	sort.Slice(games, func(i, j int) bool {
		a, b := games[i], games[j]
		if sortMode == repository.SortPopular {
			if cmp := a.AverageRating.Cmp(b.AverageRating); cmp != 0 {
				return cmp > 0
			}
			if a.PurchaseCount != b.PurchaseCount {
				return a.PurchaseCount > b.PurchaseCount
			}
			return a.ID > b.ID
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

func clone(game *domain.Game) *domain.Game {
	copied := *game
	copied.Categories = append([]domain.Category(nil), game.Categories...)
	copied.Tags = append([]string(nil), game.Tags...)
	copied.Platforms = append([]string(nil), game.Platforms...)
	copied.Screenshots = append([]string(nil), game.Screenshots...)
	if game.DeletedAt != nil {
		deleted := *game.DeletedAt
		copied.DeletedAt = &deleted
	}
	return &copied
}
