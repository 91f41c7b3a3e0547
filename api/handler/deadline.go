package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/deadliner/api/transport"
	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/pkg/httpcontext"
	deadlineUC "github.com/fastygo/deadliner/usecase/deadline"
)

type DeadlineHandler struct {
	baseHandler
	uc *deadlineUC.UseCase
}

func NewDeadlineHandler(uc *deadlineUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DeadlineHandler {
	return &DeadlineHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List deadlines
// @Tags deadlines
// @Param filter query string false "all, urgent, week or later"
// @Router /api/v1/deadlines [get]
func (h *DeadlineHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	window, err := deadlineUC.ParseWindow(queryString(ctx, "filter"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	filter := deadlineUC.ListFilter{
		Window:     window,
		CategoryID: queryString(ctx, "category_id"),
		ParentID:   queryString(ctx, "parent_id"),
		RootsOnly:  queryString(ctx, "roots") == "true",
		Limit:      queryInt(ctx, "limit", 0),
		Offset:     queryInt(ctx, "offset", 0),
	}

	deadlines, err := h.uc.List(stdCtx, userID, filter)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondList(ctx, h.uc.Describe(deadlines), len(deadlines), filter.Limit, filter.Offset)
}

// @Summary Get deadline
// @Tags deadlines
// @Router /api/v1/deadlines/{id} [get]
func (h *DeadlineHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	d, err := h.uc.Get(stdCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.uc.Describe([]domain.Deadline{*d})[0])
}

// @Summary Create deadline
// @Tags deadlines
// @Accept json
// @Router /api/v1/deadlines [post]
func (h *DeadlineHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	var req transport.DeadlineCreateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	d, err := h.uc.Create(stdCtx, userID, deadlineUC.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		DeadlineAt:  req.DeadlineAt,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
		ParentID:    req.ParentID,
	})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, d)
}

// @Summary Update deadline
// @Tags deadlines
// @Accept json
// @Router /api/v1/deadlines/{id} [put]
func (h *DeadlineHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	var req transport.DeadlineUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	d, err := h.uc.Update(stdCtx, userID, pathParam(ctx, "id"), deadlineUC.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		DeadlineAt:  req.DeadlineAt,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
		ParentID:    req.ParentID,
	})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, d)
}

// @Summary Delete deadline and its subtasks
// @Tags deadlines
// @Router /api/v1/deadlines/{id} [delete]
func (h *DeadlineHandler) Delete(ctx *fasthttp.RequestCtx) {
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

// @Summary Complete deadline
// @Tags deadlines
// @Router /api/v1/deadlines/{id}/complete [post]
func (h *DeadlineHandler) Complete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	d, err := h.uc.Complete(stdCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, d)
}

// @Summary Reopen deadline
// @Tags deadlines
// @Router /api/v1/deadlines/{id}/reopen [post]
func (h *DeadlineHandler) Reopen(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	d, err := h.uc.Reopen(stdCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, d)
}

// @Summary List child deadlines
// @Tags deadlines
// @Router /api/v1/deadlines/{id}/children [get]
func (h *DeadlineHandler) Children(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	children, err := h.uc.Children(stdCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondList(ctx, h.uc.Describe(children), len(children), 0, 0)
}

// @Summary Explain a missed deadline
// @Tags deadlines
// @Router /api/v1/deadlines/{id}/autopsy [get]
func (h *DeadlineHandler) Autopsy(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	report, err := h.uc.Autopsy(stdCtx, userID, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}
