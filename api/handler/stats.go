package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/pkg/calendar"
	"github.com/fastygo/deadliner/pkg/httpcontext"
	core "github.com/fastygo/deadliner/stats"
	statsUC "github.com/fastygo/deadliner/usecase/stats"
)

type StatsHandler struct {
	baseHandler
	uc *statsUC.UseCase
}

func NewStatsHandler(uc *statsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// serve runs one stats computation for the authenticated user.
func serve[T any](h *StatsHandler, ctx *fasthttp.RequestCtx, compute func(context.Context, string) (T, error)) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	out, err := compute(stdCtx, userID)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, out)
}

// @Summary Every statistic computed from one snapshot
// @Tags stats
// @Router /api/v1/stats/overview [get]
func (h *StatsHandler) Overview(ctx *fasthttp.RequestCtx) {
	serve(h, ctx, h.uc.Overview)
}

// @Summary Weekly completion and focus totals
// @Tags stats
// @Router /api/v1/stats/weekly [get]
func (h *StatsHandler) Weekly(ctx *fasthttp.RequestCtx) {
	serve(h, ctx, h.uc.Weekly)
}

// @Summary Current and longest streak
// @Tags stats
// @Router /api/v1/stats/streak [get]
func (h *StatsHandler) Streak(ctx *fasthttp.RequestCtx) {
	serve(h, ctx, h.uc.Streak)
}

// @Summary Seven day chart
// @Tags stats
// @Param week_start query string false "YYYY-MM-DD"
// @Router /api/v1/stats/chart [get]
func (h *StatsHandler) Chart(ctx *fasthttp.RequestCtx) {
	var weekStart *calendar.Day
	if raw := queryString(ctx, "week_start"); raw != "" {
		day, err := calendar.ParseDay(raw)
		if err != nil {
			h.respondError(context.Background(), ctx, domain.Invalid("week_start must be YYYY-MM-DD"))
			return
		}
		weekStart = &day
	}
	serve(h, ctx, func(stdCtx context.Context, userID string) ([]core.ChartDay, error) {
		return h.uc.Chart(stdCtx, userID, weekStart)
	})
}

// @Summary Vitality score
// @Tags stats
// @Router /api/v1/stats/vitality [get]
func (h *StatsHandler) Vitality(ctx *fasthttp.RequestCtx) {
	serve(h, ctx, h.uc.Vitality)
}

// @Summary Health of one day
// @Tags stats
// @Param date query string false "YYYY-MM-DD, today when absent"
// @Router /api/v1/stats/health [get]
func (h *StatsHandler) DayHealth(ctx *fasthttp.RequestCtx) {
	day, ok := h.dayParam(ctx, "date")
	if !ok {
		return
	}
	serve(h, ctx, func(stdCtx context.Context, userID string) (core.DayHealth, error) {
		return h.uc.DayHealth(stdCtx, userID, day)
	})
}

// @Summary Health of every day in a month
// @Tags stats
// @Param month query string false "any YYYY-MM-DD inside the month"
// @Router /api/v1/stats/calendar [get]
func (h *StatsHandler) Calendar(ctx *fasthttp.RequestCtx) {
	day, ok := h.dayParam(ctx, "month")
	if !ok {
		return
	}
	serve(h, ctx, func(stdCtx context.Context, userID string) ([]core.DayHealth, error) {
		return h.uc.MonthHealth(stdCtx, userID, day)
	})
}

// dayParam parses a YYYY-MM-DD query value, defaulting to today in the stats zone.
func (h *StatsHandler) dayParam(ctx *fasthttp.RequestCtx, key string) (calendar.Day, bool) {
	raw := queryString(ctx, key)
	if raw == "" {
		return h.uc.Today(), true
	}
	day, err := calendar.ParseDay(raw)
	if err != nil {
		h.respondError(context.Background(), ctx, domain.Invalid("%s must be YYYY-MM-DD", key))
		return calendar.Day{}, false
	}
	return day, true
}
