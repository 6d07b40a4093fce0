package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Ex1s9/game-catalog/domain"
	"github.com/Ex1s9/game-catalog/repository"
)

// gameColumns is the canonical select list. Numeric columns travel as text
// to keep fixed-point values exact.
const gameColumns = `id, developer_id, publisher_id, name, description, cover_image, trailer_url,
	release_date, price::text, status, categories, tags, platforms, screenshots,
	rating_count, average_rating::text, purchase_count, created_at, updated_at`

type gameRepository struct {
	pool *pgxpool.Pool
}

// NewGameRepository returns a Postgres-backed implementation of GameRepository.
func NewGameRepository(pool *pgxpool.Pool) repository.GameRepository {
	return &gameRepository{pool: pool}
}

func (r *gameRepository) Insert(ctx context.Context, game *domain.Game) (*domain.Game, error) {
	if game == nil {
		return nil, domain.ErrInvalidPayload
	}
	if game.ID == "" {
		game.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO games (id, developer_id, publisher_id, name, description, cover_image, trailer_url,
		release_date, price, status, categories, tags, platforms, screenshots)
	VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8::date, CURRENT_DATE), $9::numeric, $10, $11::text[], $12::text[], $13::text[], $14::text[])
	RETURNING created_at, updated_at
	`

	var publisher, trailer, release interface{}
	if game.PublisherID != "" {
		publisher = game.PublisherID
	}
	if game.TrailerURL != "" {
		trailer = game.TrailerURL
	}
	if !game.ReleaseDate.IsZero() {
		release = game.ReleaseDate
	}

	cats := game.Categories
	if err := r.pool.QueryRow(ctx, query,
		game.ID,
		game.DeveloperID,
		publisher,
		game.Name,
		game.Description,
		game.CoverImage,
		trailer,
		release,
		game.Price.String(),
		game.Status.String(),
		categoriesArg(&cats),
		textArray(game.Tags),
		textArray(game.Platforms),
		textArray(game.Screenshots),
	).Scan(&game.CreatedAt, &game.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrGameExists
		}
		return nil, err
	}

	return game, nil
}

func (r *gameRepository) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1 AND deleted_at IS NULL`
	row := r.pool.QueryRow(ctx, query, id)
	return scanGame(row)
}

func (r *gameRepository) ApplyPatch(ctx context.Context, id string, patch domain.GamePatch) (*domain.Game, error) {
	// COALESCE keeps the stored value for every absent field; the two
	// nullable fields treat the empty string as an explicit clear.
	query := `
	UPDATE games SET
		name = COALESCE($2, name),
		description = COALESCE($3, description),
		cover_image = COALESCE($4, cover_image),
		trailer_url = CASE WHEN $5::text IS NULL THEN trailer_url
			WHEN $5 = '' THEN NULL ELSE $5 END,
		publisher_id = CASE WHEN $6::text IS NULL THEN publisher_id
			WHEN $6 = '' THEN NULL ELSE $6::uuid END,
		release_date = COALESCE($7, release_date),
		price = COALESCE($8::numeric, price),
		status = COALESCE($9, status),
		categories = COALESCE($10::text[], categories),
		tags = COALESCE($11::text[], tags),
		platforms = COALESCE($12::text[], platforms),
		updated_at = now()
	WHERE id = $1 AND deleted_at IS NULL
	RETURNING ` + gameColumns

	row := r.pool.QueryRow(ctx, query,
		id,
		patch.Name,
		patch.Description,
		patch.CoverImage,
		patch.TrailerURL,
		patch.PublisherID,
		patch.ReleaseDate,
		decimalArg(patch.Price),
		statusArg(patch.Status),
		categoriesArg(patch.Categories),
		stringsArg(patch.Tags),
		stringsArg(patch.Platforms),
	)
	return scanGame(row)
}

func (r *gameRepository) SoftDelete(ctx context.Context, id, developerID string) (bool, error) {
	const query = `
	UPDATE games
	SET deleted_at = now(), updated_at = now()
	WHERE id = $1 AND developer_id = $2 AND deleted_at IS NULL
	`
	tag, err := r.pool.Exec(ctx, query, id, developerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *gameRepository) Scan(ctx context.Context, filter repository.GameFilter) ([]domain.Game, int, error) {
	compiled := compileFilter(filter)

	countSQL, countArgs := compiled.countQuery()
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	pageSQL, pageArgs := compiled.pageQuery()
	rows, err := r.pool.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, 0, err
		}
		games = append(games, *game)
	}
	return games, total, rows.Err()
}

// RecordRating folds the value into the running average in one statement.
// Every SET expression reads the pre-update row, so the math and the
// counter bump see the same snapshot and the row lock serializes raters.
func (r *gameRepository) RecordRating(ctx context.Context, id string, value decimal.Decimal) error {
	const query = `
	UPDATE games
	SET average_rating = (average_rating * rating_count + $2::numeric) / (rating_count + 1),
		rating_count = rating_count + 1,
		updated_at = now()
	WHERE id = $1 AND deleted_at IS NULL
	`
	return r.execOnLiveRow(ctx, query, id, value.String())
}

func (r *gameRepository) RecordPurchase(ctx context.Context, id string) error {
	const query = `
	UPDATE games
	SET purchase_count = purchase_count + 1,
		updated_at = now()
	WHERE id = $1 AND deleted_at IS NULL
	`
	return r.execOnLiveRow(ctx, query, id)
}

func (r *gameRepository) AppendScreenshot(ctx context.Context, id, url string) error {
	const query = `
	UPDATE games
	SET screenshots = array_append(screenshots, $2),
		updated_at = now()
	WHERE id = $1 AND deleted_at IS NULL
	`
	return r.execOnLiveRow(ctx, query, id, url)
}

func (r *gameRepository) RemoveScreenshot(ctx context.Context, id, url string) error {
	// array_remove strips every occurrence; removing an absent url is a
	// successful no-op on content, though updated_at still advances.
	const query = `
	UPDATE games
	SET screenshots = array_remove(screenshots, $2),
		updated_at = now()
	WHERE id = $1 AND deleted_at IS NULL
	`
	return r.execOnLiveRow(ctx, query, id, url)
}

func (r *gameRepository) execOnLiveRow(ctx context.Context, query, id string, args ...interface{}) error {
	tag, err := r.pool.Exec(ctx, query, append([]interface{}{id}, args...)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

func scanGame(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Game, error) {
	var game domain.Game
	var (
		publisher   *string
		trailer     *string
		releaseDate time.Time
		priceText   string
		status      string
		categories  []string
		avgText     string
	)

	if err := row.Scan(
		&game.ID,
		&game.DeveloperID,
		&publisher,
		&game.Name,
		&game.Description,
		&game.CoverImage,
		&trailer,
		&releaseDate,
		&priceText,
		&status,
		&categories,
		&game.Tags,
		&game.Platforms,
		&game.Screenshots,
		&game.RatingCount,
		&avgText,
		&game.PurchaseCount,
		&game.CreatedAt,
		&game.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGameNotFound
		}
		return nil, err
	}

	if publisher != nil {
		game.PublisherID = *publisher
	}
	if trailer != nil {
		game.TrailerURL = *trailer
	}
	game.ReleaseDate = releaseDate
	game.Status = domain.Status(status)
	game.Categories = categoriesFromNames(categories)

	price, err := parseDecimal(priceText)
	if err != nil {
		return nil, err
	}
	game.Price = price

	avg, err := parseDecimal(avgText)
	if err != nil {
		return nil, err
	}
	game.AverageRating = avg

	return &game, nil
}
