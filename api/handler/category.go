package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/deadliner/api/transport"
	"github.com/fastygo/deadliner/pkg/httpcontext"
	categoryUC "github.com/fastygo/deadliner/usecase/category"
)

type CategoryHandler struct {
	baseHandler
	uc *categoryUC.UseCase
}

func NewCategoryHandler(uc *categoryUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List categories
// @Tags categories
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	cats, err := h.uc.List(stdCtx, userID)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondList(ctx, cats, len(cats), 0, 0)
}

// @Summary Create category
// @Tags categories
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	var req transport.CategoryRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	c, err := h.uc.Create(stdCtx, userID, categoryUC.Input{Name: req.Name, Color: req.Color, Icon: req.Icon})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, c)
}

// @Summary Update category
// @Tags categories
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	var req transport.CategoryRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	c, err := h.uc.Update(stdCtx, userID, pathParam(ctx, "id"), categoryUC.Input{Name: req.Name, Color: req.Color, Icon: req.Icon})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, c)
}

// @Summary Delete category
// @Tags categories
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(ctx *fasthttp.RequestCtx) {
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
