package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/deadliner/api/handler"
	"github.com/fastygo/deadliner/internal/middleware"
)

// Handlers groups every HTTP handler. Auth and Sync are nil in local mode, which leaves their
// routes unregistered.
type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Profile  *apiHandler.ProfileHandler
	Deadline *apiHandler.DeadlineHandler
	Subtask  *apiHandler.SubtaskHandler
	Category *apiHandler.CategoryHandler
	Focus    *apiHandler.FocusHandler
	Stats    *apiHandler.StatsHandler
	Sync     *apiHandler.SyncHandler
	Health   *apiHandler.HealthHandler
}

// New registers every route. protect resolves the user of a request: the JWT middleware in
// remote mode, the fixed local user otherwise.
func New(handlers Handlers, protect middleware.Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	if handlers.Auth != nil {
		r.POST("/api/v1/auth/login", handlers.Auth.Login)
		r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
		r.POST("/api/v1/auth/logout", protect(handlers.Auth.Logout))
	}

	r.GET("/api/v1/profile", protect(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", protect(handlers.Profile.UpdateProfile))

	r.GET("/api/v1/deadlines", protect(handlers.Deadline.List))
	r.POST("/api/v1/deadlines", protect(handlers.Deadline.Create))
	r.GET("/api/v1/deadlines/{id}", protect(handlers.Deadline.Get))
	r.PUT("/api/v1/deadlines/{id}", protect(handlers.Deadline.Update))
	r.DELETE("/api/v1/deadlines/{id}", protect(handlers.Deadline.Delete))
	r.POST("/api/v1/deadlines/{id}/complete", protect(handlers.Deadline.Complete))
	r.POST("/api/v1/deadlines/{id}/reopen", protect(handlers.Deadline.Reopen))
	r.GET("/api/v1/deadlines/{id}/children", protect(handlers.Deadline.Children))
	r.GET("/api/v1/deadlines/{id}/autopsy", protect(handlers.Deadline.Autopsy))

	r.GET("/api/v1/deadlines/{id}/subtasks", protect(handlers.Subtask.List))
	r.POST("/api/v1/deadlines/{id}/subtasks", protect(handlers.Subtask.Create))
	r.PUT("/api/v1/deadlines/{id}/subtasks/order", protect(handlers.Subtask.Reorder))
	r.PUT("/api/v1/subtasks/{id}", protect(handlers.Subtask.Update))
	r.DELETE("/api/v1/subtasks/{id}", protect(handlers.Subtask.Delete))
	r.POST("/api/v1/subtasks/{id}/toggle", protect(handlers.Subtask.Toggle))
	r.POST("/api/v1/subtasks/{id}/convert", protect(handlers.Subtask.Convert))

	r.GET("/api/v1/categories", protect(handlers.Category.List))
	r.POST("/api/v1/categories", protect(handlers.Category.Create))
	r.PUT("/api/v1/categories/{id}", protect(handlers.Category.Update))
	r.DELETE("/api/v1/categories/{id}", protect(handlers.Category.Delete))

	r.GET("/api/v1/focus-sessions", protect(handlers.Focus.List))
	r.POST("/api/v1/focus-sessions", protect(handlers.Focus.Start))
	r.POST("/api/v1/focus-sessions/{id}/complete", protect(handlers.Focus.Complete))

	r.GET("/api/v1/stats/overview", protect(handlers.Stats.Overview))
	r.GET("/api/v1/stats/weekly", protect(handlers.Stats.Weekly))
	r.GET("/api/v1/stats/streak", protect(handlers.Stats.Streak))
	r.GET("/api/v1/stats/chart", protect(handlers.Stats.Chart))
	r.GET("/api/v1/stats/vitality", protect(handlers.Stats.Vitality))
	r.GET("/api/v1/stats/health", protect(handlers.Stats.DayHealth))
	r.GET("/api/v1/stats/calendar", protect(handlers.Stats.Calendar))

	if handlers.Sync != nil {
		r.GET("/api/v1/sync", protect(handlers.Sync.LastSync))
		r.POST("/api/v1/sync", protect(handlers.Sync.Push))
	}

	return r
}

// Handler wraps the router with the outer middleware chain, outermost first.
func Handler(r *router.Router, outer ...middleware.Middleware) fasthttp.RequestHandler {
	h := r.Handler
	for i := len(outer) - 1; i >= 0; i-- {
		h = outer[i](h)
	}
	return h
}
