package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/deadliner/api/transport"
	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/pkg/httpcontext"
	focusUC "github.com/fastygo/deadliner/usecase/focus"
)

type FocusHandler struct {
	baseHandler
	uc *focusUC.UseCase
}

func NewFocusHandler(uc *focusUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *FocusHandler {
	return &FocusHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List focus sessions, newest first
// @Tags focus
// @Param since query string false "RFC3339 instant"
// @Router /api/v1/focus-sessions [get]
func (h *FocusHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	filter := focusUC.ListFilter{
		DeadlineID: queryString(ctx, "deadline_id"),
		Limit:      queryInt(ctx, "limit", 0),
		Offset:     queryInt(ctx, "offset", 0),
	}
	if raw := queryString(ctx, "since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.respondError(stdCtx, ctx, domain.Invalid("since must be an RFC3339 instant"))
			return
		}
		filter.Since = since
	}

	sessions, err := h.uc.List(stdCtx, userID, filter)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondList(ctx, sessions, len(sessions), filter.Limit, filter.Offset)
}

// @Summary Start a focus session
// @Tags focus
// @Router /api/v1/focus-sessions [post]
func (h *FocusHandler) Start(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	var req transport.FocusStartRequest
	if len(ctx.PostBody()) > 0 && !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	s, err := h.uc.Start(stdCtx, userID, focusUC.StartInput{
		DeadlineID:      req.DeadlineID,
		DurationMinutes: req.DurationMinutes,
		SessionType:     req.SessionType,
	})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, s)
}

// @Summary Complete a focus session
// @Tags focus
// @Router /api/v1/focus-sessions/{id}/complete [post]
func (h *FocusHandler) Complete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	s, err := h.uc.Complete(stdCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, s)
}
