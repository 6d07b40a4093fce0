package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Ex1s9/game-catalog/domain"
	"github.com/Ex1s9/game-catalog/pkg/logger"
	"github.com/Ex1s9/game-catalog/repository"
	"github.com/Ex1s9/game-catalog/usecase"
)

// UseCase is the catalog facade: it validates requests before any store
// call, delegates reads to the scan path and writes to the atomic store
// operations, and classifies every error it lets out.
type UseCase struct {
	games   repository.GameRepository
	cache   repository.GameCache
	journal usecase.ChangeJournal
	logger  *zap.Logger
}

func New(games repository.GameRepository, cache repository.GameCache, journal usecase.ChangeJournal, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		games:   games,
		cache:   cache,
		journal: journal,
		logger:  logger,
	}
}

// ListResult is one page of the catalog plus the true matching total.
type ListResult struct {
	Games   []domain.Game
	Total   int
	Limit   int
	Offset  int
	HasMore bool
}

// List scans the catalog with the given filter. The next-page signal is
// derived from the clamped window against the total, never guessed from
// the page length.
func (uc *UseCase) List(ctx context.Context, filter repository.GameFilter) (*ListResult, error) {
	if filter.DeveloperID != "" {
		if _, err := uuid.Parse(filter.DeveloperID); err != nil {
			return nil, domain.NewError(domain.ErrCodeInvalid, "malformed developer id")
		}
	}

	games, total, err := uc.games.Scan(ctx, filter)
	if err != nil {
		return nil, err
	}

	limit := filter.ClampedLimit()
	offset := filter.ClampedOffset()
	return &ListResult{
		Games:   games,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}, nil
}

// Get returns one live game, serving repeated reads from the snapshot
// cache when one is configured.
func (uc *UseCase) Get(ctx context.Context, id string) (*domain.Game, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if game, err := uc.cache.Get(ctx, id); err == nil {
			return game, nil
		}
	}

	game, err := uc.games.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, game); err != nil {
			logger.WithRequestID(ctx, uc.logger).Warn("game cache write failed",
				zap.String("game_id", id), zap.Error(err))
		}
	}
	return game, nil
}

// Create persists a new game. Lifecycle always starts at Draft with zeroed
// aggregates regardless of what the caller supplied.
func (uc *UseCase) Create(ctx context.Context, game *domain.Game) (*domain.Game, error) {
	if err := game.ValidateForCreate(); err != nil {
		return nil, err
	}

	game.ID = ""
	game.Status = domain.StatusDraft
	game.RatingCount = 0
	game.AverageRating = decimal.Zero
	game.PurchaseCount = 0
	game.Screenshots = nil
	game.DeletedAt = nil

	created, err := uc.games.Insert(ctx, game)
	if err != nil {
		return nil, err
	}

	uc.record(ctx, "game.created", created.ID, created.DeveloperID, created)
	return created, nil
}

// Update applies a partial patch after the ownership check. Status moves
// anywhere inside the vocabulary: no workflow ordering is enforced and
// Suspended stays re-editable.
func (uc *UseCase) Update(ctx context.Context, id, callerID string, patch domain.GamePatch) (*domain.Game, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	current, err := uc.games.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.OwnedBy(callerID) {
		return nil, domain.ErrNotOwner
	}

	if patch.IsZero() {
		return current, nil
	}

	updated, err := uc.games.ApplyPatch(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, id)
	uc.record(ctx, "game.updated", id, callerID, updated)
	return updated, nil
}

// Delete soft-deletes the game. A wrong owner and a missing row are
// indistinguishable here: both come back as not-found.
func (uc *UseCase) Delete(ctx context.Context, id, callerID string) error {
	if err := parseID(id); err != nil {
		return err
	}

	deleted, err := uc.games.SoftDelete(ctx, id, callerID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrGameNotFound
	}

	uc.invalidate(ctx, id)
	uc.record(ctx, "game.deleted", id, callerID, nil)
	return nil
}

// Rate folds one rating into the running average.
func (uc *UseCase) Rate(ctx context.Context, id string, value decimal.Decimal) error {
	if err := parseID(id); err != nil {
		return err
	}
	if !domain.ValidRating(value) {
		return domain.ErrInvalidRating
	}

	if err := uc.games.RecordRating(ctx, id, value); err != nil {
		return err
	}

	uc.invalidate(ctx, id)
	uc.record(ctx, "game.rated", id, "", map[string]string{"value": value.String()})
	return nil
}

// Purchase bumps the purchase counter by exactly one.
func (uc *UseCase) Purchase(ctx context.Context, id string) error {
	if err := parseID(id); err != nil {
		return err
	}

	if err := uc.games.RecordPurchase(ctx, id); err != nil {
		return err
	}

	uc.invalidate(ctx, id)
	uc.record(ctx, "game.purchased", id, "", nil)
	return nil
}

// AddScreenshot appends a screenshot URL on behalf of the owning
// developer; duplicates are kept.
func (uc *UseCase) AddScreenshot(ctx context.Context, id, callerID, url string) error {
	if err := uc.checkScreenshotMutation(ctx, id, callerID, url); err != nil {
		return err
	}

	if err := uc.games.AppendScreenshot(ctx, id, url); err != nil {
		return err
	}

	uc.invalidate(ctx, id)
	uc.record(ctx, "game.screenshot_added", id, callerID, map[string]string{"url": url})
	return nil
}

// RemoveScreenshot drops every occurrence of the URL; an absent URL is a
// successful no-op.
func (uc *UseCase) RemoveScreenshot(ctx context.Context, id, callerID, url string) error {
	if err := uc.checkScreenshotMutation(ctx, id, callerID, url); err != nil {
		return err
	}

	if err := uc.games.RemoveScreenshot(ctx, id, url); err != nil {
		return err
	}

	uc.invalidate(ctx, id)
	uc.record(ctx, "game.screenshot_removed", id, callerID, map[string]string{"url": url})
	return nil
}

// checkScreenshotMutation validates the request and confirms the caller
// owns the game, mirroring the Update ownership rule.
func (uc *UseCase) checkScreenshotMutation(ctx context.Context, id, callerID, url string) error {
	if err := parseID(id); err != nil {
		return err
	}
	if url == "" {
		return domain.NewError(domain.ErrCodeInvalid, "screenshot url is required")
	}

	current, err := uc.games.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !current.OwnedBy(callerID) {
		return domain.ErrNotOwner
	}
	return nil
}

func (uc *UseCase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, id); err != nil {
		logger.WithRequestID(ctx, uc.logger).Warn("game cache invalidation failed",
			zap.String("game_id", id), zap.Error(err))
	}
}

func (uc *UseCase) record(ctx context.Context, name, gameID, actorID string, payload interface{}) {
	if uc.journal == nil {
		return
	}
	if err := uc.journal.RecordChange(ctx, name, gameID, actorID, payload); err != nil {
		logger.WithRequestID(ctx, uc.logger).Warn("journal append failed",
			zap.String("event", name), zap.Error(err))
	}
}

func parseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidID
	}
	return nil
}
