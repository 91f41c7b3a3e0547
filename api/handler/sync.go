package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/deadliner/pkg/httpcontext"
	syncUC "github.com/fastygo/deadliner/usecase/cloudsync"
)

type SyncHandler struct {
	baseHandler
	uc *syncUC.UseCase
}

func NewSyncHandler(uc *syncUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Push the local store to the account of the caller
// @Tags sync
// @Router /api/v1/sync [post]
func (h *SyncHandler) Push(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	report, err := h.uc.Push(stdCtx, userID)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}

// @Summary When the local store was last pushed
// @Tags sync
// @Router /api/v1/sync [get]
func (h *SyncHandler) LastSync(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	at, err := h.uc.LastSync(stdCtx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	var last *time.Time
	if !at.IsZero() {
		last = &at
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]*time.Time{"last_sync": last})
}
