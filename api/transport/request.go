package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ex1s9/game-catalog/domain"
)

const dateLayout = "2006-01-02"

// CreateGameRequest is the JSON body for game creation. Price travels as a
// decimal string so no precision is lost on the wire.
type CreateGameRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PublisherID string   `json:"publisher_id,omitempty"`
	CoverImage  string   `json:"cover_image"`
	TrailerURL  string   `json:"trailer_url,omitempty"`
	ReleaseDate string   `json:"release_date"`
	Price       string   `json:"price"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
}

// Game converts the request into a domain entity owned by developerID.
func (r CreateGameRequest) Game(developerID string) (*domain.Game, error) {
	price, err := parsePrice(r.Price)
	if err != nil {
		return nil, err
	}

	var releaseDate time.Time
	if r.ReleaseDate != "" {
		releaseDate, err = time.Parse(dateLayout, r.ReleaseDate)
		if err != nil {
			return nil, domain.NewError(domain.ErrCodeInvalid, "release_date must be YYYY-MM-DD")
		}
	}

	categories, err := parseCategories(r.Categories)
	if err != nil {
		return nil, err
	}

	return &domain.Game{
		DeveloperID: developerID,
		PublisherID: r.PublisherID,
		Name:        r.Name,
		Description: r.Description,
		CoverImage:  r.CoverImage,
		TrailerURL:  r.TrailerURL,
		ReleaseDate: releaseDate,
		Price:       price,
		Categories:  categories,
		Tags:        r.Tags,
		Platforms:   r.Platforms,
	}, nil
}

// UpdateGameRequest is a field-level partial patch: absent fields leave the
// stored value unchanged. For trailer_url and publisher_id an explicit
// empty string clears the field.
type UpdateGameRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	CoverImage  *string   `json:"cover_image"`
	TrailerURL  *string   `json:"trailer_url"`
	PublisherID *string   `json:"publisher_id"`
	ReleaseDate *string   `json:"release_date"`
	Price       *string   `json:"price"`
	Status      *string   `json:"status"`
	Categories  *[]string `json:"categories"`
	Tags        *[]string `json:"tags"`
	Platforms   *[]string `json:"platforms"`
}

// Patch converts the request into a domain patch.
func (r UpdateGameRequest) Patch() (domain.GamePatch, error) {
	patch := domain.GamePatch{
		Name:        r.Name,
		Description: r.Description,
		CoverImage:  r.CoverImage,
		TrailerURL:  r.TrailerURL,
		PublisherID: r.PublisherID,
		Tags:        r.Tags,
		Platforms:   r.Platforms,
	}

	if r.ReleaseDate != nil {
		parsed, err := time.Parse(dateLayout, *r.ReleaseDate)
		if err != nil {
			return domain.GamePatch{}, domain.NewError(domain.ErrCodeInvalid, "release_date must be YYYY-MM-DD")
		}
		patch.ReleaseDate = &parsed
	}
	if r.Price != nil {
		price, err := parsePrice(*r.Price)
		if err != nil {
			return domain.GamePatch{}, err
		}
		patch.Price = &price
	}
	if r.Status != nil {
		status, err := domain.ParseStatus(*r.Status)
		if err != nil {
			return domain.GamePatch{}, err
		}
		patch.Status = &status
	}
	if r.Categories != nil {
		categories, err := parseCategories(*r.Categories)
		if err != nil {
			return domain.GamePatch{}, err
		}
		patch.Categories = &categories
	}

	return patch, nil
}

// RateGameRequest carries one rating value as a decimal string.
type RateGameRequest struct {
	Value string `json:"value"`
}

// Rating parses and returns the rating value.
func (r RateGameRequest) Rating() (decimal.Decimal, error) {
	value, err := decimal.NewFromString(r.Value)
	if err != nil {
		return decimal.Zero, domain.ErrInvalidRating
	}
	return value, nil
}

// ScreenshotRequest names one screenshot URL to append or remove.
type ScreenshotRequest struct {
	URL string `json:"url"`
}

func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.NewError(domain.ErrCodeInvalid, "price must be a decimal string")
	}
	return price, nil
}

func parseCategories(names []string) ([]domain.Category, error) {
	categories := make([]domain.Category, 0, len(names))
	for _, name := range names {
		category, err := domain.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}
