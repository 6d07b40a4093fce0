package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Ex1s9/game-catalog/internal/services"
	"github.com/Ex1s9/game-catalog/pkg/httpcontext"
)

type AdminHandler struct {
	baseHandler
	recorder *services.ChangeRecorder
}

func NewAdminHandler(recorder *services.ChangeRecorder, adapter *httpcontext.Adapter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		baseHandler: newBaseHandler(adapter, logger),
		recorder:    recorder,
	}
}

// @Summary Recent catalog changes
// @Tags admin
// @Router /api/v1/admin/changes [get]
func (h *AdminHandler) RecentChanges(ctx *fasthttp.RequestCtx) {
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	// Journal reads are themselves auditable.
	if meta, ok := httpcontext.FromContext(stdCtx); ok {
		h.logger.Info("journal read",
			zap.String("request_id", meta.RequestID),
			zap.String("remote_addr", meta.RemoteAddr),
			zap.Int("limit", limit))
	}

	entries, err := h.recorder.Recent(limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}
