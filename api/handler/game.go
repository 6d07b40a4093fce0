package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Ex1s9/game-catalog/api/transport"
	"github.com/Ex1s9/game-catalog/domain"
	"github.com/Ex1s9/game-catalog/pkg/httpcontext"
	"github.com/Ex1s9/game-catalog/repository"
	catalogUC "github.com/Ex1s9/game-catalog/usecase/catalog"
)

type GameHandler struct {
	baseHandler
	uc *catalogUC.UseCase
}

func NewGameHandler(uc *catalogUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List games
// @Tags games
// @Router /api/v1/games [get]
func (h *GameHandler) ListGames(ctx *fasthttp.RequestCtx) {
	filter, err := parseGameFilter(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccessMeta(ctx, http.StatusOK,
		transport.NewGameResponses(result.Games),
		transport.PageMeta{
			Total:   result.Total,
			Limit:   result.Limit,
			Offset:  result.Offset,
			HasMore: result.HasMore,
		})
}

// @Summary Get game
// @Tags games
// @Router /api/v1/games/{id} [get]
func (h *GameHandler) GetGame(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	game, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewGameResponse(*game))
}

// @Summary Create game
// @Tags games
// @Router /api/v1/games [post]
func (h *GameHandler) CreateGame(ctx *fasthttp.RequestCtx) {
	developerID := h.developerID(ctx)
	if developerID == "" {
		return
	}

	var req transport.CreateGameRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	game, err := req.Game(developerID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, game)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewGameResponse(*created))
}

// @Summary Update game
// @Tags games
// @Router /api/v1/games/{id} [patch]
func (h *GameHandler) UpdateGame(ctx *fasthttp.RequestCtx) {
	developerID := h.developerID(ctx)
	if developerID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.UpdateGameRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	patch, err := req.Patch()
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, id, developerID, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewGameResponse(*updated))
}

// @Summary Delete game
// @Tags games
// @Router /api/v1/games/{id} [delete]
func (h *GameHandler) DeleteGame(ctx *fasthttp.RequestCtx) {
	developerID := h.developerID(ctx)
	if developerID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id, developerID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Rate game
// @Tags games
// @Router /api/v1/games/{id}/rating [post]
func (h *GameHandler) RateGame(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	var req transport.RateGameRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	value, err := req.Rating()
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Rate(stdCtx, id, value); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Record purchase
// @Tags games
// @Router /api/v1/games/{id}/purchase [post]
func (h *GameHandler) PurchaseGame(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Purchase(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Add screenshot
// @Tags games
// @Router /api/v1/games/{id}/screenshots [post]
func (h *GameHandler) AddScreenshot(ctx *fasthttp.RequestCtx) {
	developerID := h.developerID(ctx)
	if developerID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.ScreenshotRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.AddScreenshot(stdCtx, id, developerID, req.URL); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Remove screenshot
// @Tags games
// @Router /api/v1/games/{id}/screenshots [delete]
func (h *GameHandler) RemoveScreenshot(ctx *fasthttp.RequestCtx) {
	developerID := h.developerID(ctx)
	if developerID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.ScreenshotRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.RemoveScreenshot(stdCtx, id, developerID, req.URL); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

func (h *GameHandler) developerID(ctx *fasthttp.RequestCtx) string {
	developerID := string(ctx.Request.Header.Peek("X-Developer-ID"))
	if developerID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized,
			transport.NewError(string(domain.ErrCodeUnauthorized), "missing developer id", nil))
	}
	return developerID
}

func parseGameFilter(ctx *fasthttp.RequestCtx) (repository.GameFilter, error) {
	args := ctx.QueryArgs()

	filter := repository.GameFilter{
		DeveloperID: string(args.Peek("developer_id")),
		Query:       string(args.Peek("q")),
		Limit:       parseInt(string(args.Peek("limit")), repository.DefaultLimit),
		Offset:      parseInt(string(args.Peek("offset")), 0),
	}

	if raw := string(args.Peek("categories")); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			category, err := domain.ParseCategory(strings.TrimSpace(name))
			if err != nil {
				return repository.GameFilter{}, err
			}
			filter.Categories = append(filter.Categories, category)
		}
	}
	if raw := string(args.Peek("status")); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return repository.GameFilter{}, err
		}
		filter.Status = &status
	}
	if raw := string(args.Peek("min_price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return repository.GameFilter{}, domain.NewError(domain.ErrCodeInvalid, "min_price must be a decimal string")
		}
		filter.MinPrice = &price
	}
	if raw := string(args.Peek("max_price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return repository.GameFilter{}, domain.NewError(domain.ErrCodeInvalid, "max_price must be a decimal string")
		}
		filter.MaxPrice = &price
	}
	if string(args.Peek("sort")) == string(repository.SortPopular) {
		filter.Sort = repository.SortPopular
	}

	return filter, nil
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
