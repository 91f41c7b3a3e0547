package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/deadliner/api/transport"
	"github.com/fastygo/deadliner/pkg/httpcontext"
	deadlineUC "github.com/fastygo/deadliner/usecase/deadline"
	subtaskUC "github.com/fastygo/deadliner/usecase/subtask"
)

type SubtaskHandler struct {
	baseHandler
	uc        *subtaskUC.UseCase
	deadlines *deadlineUC.UseCase
}

// NewSubtaskHandler needs the deadline use case for converting a subtask into a child deadline.
func NewSubtaskHandler(uc *subtaskUC.UseCase, deadlines *deadlineUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *SubtaskHandler {
	return &SubtaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		deadlines:   deadlines,
	}
}

// @Summary List subtasks of a deadline
// @Tags subtasks
// @Router /api/v1/deadlines/{id}/subtasks [get]
func (h *SubtaskHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	subtasks, err := h.uc.List(stdCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondList(ctx, subtasks, len(subtasks), 0, 0)
}

// @Summary Add a subtask
// @Tags subtasks
// @Accept json
// @Router /api/v1/deadlines/{id}/subtasks [post]
func (h *SubtaskHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	var req transport.SubtaskCreateRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	st, err := h.uc.Create(stdCtx, userID, pathParam(ctx, "id"), subtaskUC.CreateInput{
		Title:      req.Title,
		DueAt:      req.DueAt,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, st)
}

// @Summary Reorder subtasks
// @Tags subtasks
// @Accept json
// @Router /api/v1/deadlines/{id}/subtasks/order [put]
func (h *SubtaskHandler) Reorder(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	var req transport.SubtaskOrderRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	subtasks, err := h.uc.Reorder(stdCtx, userID, pathParam(ctx, "id"), req.IDs)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondList(ctx, subtasks, len(subtasks), 0, 0)
}

// @Summary Update subtask
// @Tags subtasks
// @Accept json
// @Router /api/v1/subtasks/{id} [put]
func (h *SubtaskHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	var req transport.SubtaskUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	st, err := h.uc.Update(stdCtx, userID, pathParam(ctx, "id"), subtaskUC.UpdateInput{
		Title:     req.Title,
		Completed: req.Completed,
		DueAt:     req.DueAt,
	})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, st)
}

// @Summary Toggle subtask completion
// @Tags subtasks
// @Router /api/v1/subtasks/{id}/toggle [post]
func (h *SubtaskHandler) Toggle(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	st, err := h.uc.Toggle(stdCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, st)
}

// @Summary Convert a subtask into a child deadline
// @Tags subtasks
// @Router /api/v1/subtasks/{id}/convert [post]
func (h *SubtaskHandler) Convert(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	d, err := h.deadlines.ConvertSubtask(stdCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, d)
}

// @Summary Delete subtask
// @Tags subtasks
// @Router /api/v1/subtasks/{id} [delete]
func (h *SubtaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, userID, pathParam(ctx, "id")); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}
