package transport

import (
	"encoding/json"
	"time"

	"github.com/Ex1s9/game-catalog/domain"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// GameResponse is the wire shape of a game. Price and average_rating are
// decimal strings, enums their lowercase names.
type GameResponse struct {
	ID            string   `json:"id"`
	DeveloperID   string   `json:"developer_id"`
	PublisherID   string   `json:"publisher_id,omitempty"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	CoverImage    string   `json:"cover_image"`
	TrailerURL    string   `json:"trailer_url,omitempty"`
	ReleaseDate   string   `json:"release_date"`
	Price         string   `json:"price"`
	Status        string   `json:"status"`
	Categories    []string `json:"categories"`
	Tags          []string `json:"tags,omitempty"`
	Platforms     []string `json:"platforms,omitempty"`
	Screenshots   []string `json:"screenshots,omitempty"`
	RatingCount   int32    `json:"rating_count"`
	AverageRating string   `json:"average_rating"`
	PurchaseCount int32    `json:"purchase_count"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// NewGameResponse maps a domain game onto the wire shape.
func NewGameResponse(game domain.Game) GameResponse {
	categories := make([]string, len(game.Categories))
	for i, c := range game.Categories {
		categories[i] = c.String()
	}

	var releaseDate string
	if !game.ReleaseDate.IsZero() {
		releaseDate = game.ReleaseDate.Format(dateLayout)
	}

	return GameResponse{
		ID:            game.ID,
		DeveloperID:   game.DeveloperID,
		PublisherID:   game.PublisherID,
		Name:          game.Name,
		Description:   game.Description,
		CoverImage:    game.CoverImage,
		TrailerURL:    game.TrailerURL,
		ReleaseDate:   releaseDate,
		Price:         game.Price.String(),
		Status:        game.Status.String(),
		Categories:    categories,
		Tags:          game.Tags,
		Platforms:     game.Platforms,
		Screenshots:   game.Screenshots,
		RatingCount:   game.RatingCount,
		AverageRating: game.AverageRating.StringFixed(2),
		PurchaseCount: game.PurchaseCount,
		CreatedAt:     game.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     game.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// NewGameResponses maps a page of games.
func NewGameResponses(games []domain.Game) []GameResponse {
	out := make([]GameResponse, len(games))
	for i, game := range games {
		out[i] = NewGameResponse(game)
	}
	return out
}

// PageMeta describes one page of a catalog scan.
type PageMeta struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}
