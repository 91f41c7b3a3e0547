// Package mcp exposes deadlines and statistics as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/pkg/calendar"
	"github.com/fastygo/deadliner/usecase"
	deadlineUC "github.com/fastygo/deadliner/usecase/deadline"
	statsUC "github.com/fastygo/deadliner/usecase/stats"
)

const (
	serverName    = "Deadliner"
	serverVersion = "0.1.0"
)

// Services are the use cases the tools call.
type Services struct {
	Deadlines *deadlineUC.UseCase
	Stats     *statsUC.UseCase
}

// NewServer registers every tool. All calls act as userID.
func NewServer(svc Services, userID string, logger *zap.Logger) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := newDispatcher(svc)
	s := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("list_deadlines",
		mcp.WithDescription("List deadlines due soonest first, with time remaining and status."),
		mcp.WithString("filter", mcp.Description("all, urgent (under 24h or overdue), week or later"), mcp.Enum("all", "urgent", "week", "later")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of deadlines (0 for all)")),
	), query(d, "list_deadlines", userID, logger))

	s.AddTool(mcp.NewTool("complete_deadline",
		mcp.WithDescription("Mark a deadline as completed. Fails while it has unfinished child deadlines."),
		mcp.WithString("id", mcp.Description("Deadline id"), mcp.Required()),
	), command(d, "complete_deadline", userID, logger))

	s.AddTool(mcp.NewTool("weekly_stats",
		mcp.WithDescription("Deadlines completed and focus minutes for the current week."),
	), query(d, "weekly_stats", userID, logger))

	s.AddTool(mcp.NewTool("streak",
		mcp.WithDescription("Current and longest run of active days."),
	), query(d, "streak", userID, logger))

	s.AddTool(mcp.NewTool("daily_chart",
		mcp.WithDescription("Completions and pomodoros per day for one week."),
		mcp.WithString("week_start", mcp.Description("First day of the week as YYYY-MM-DD; defaults to the current week")),
	), query(d, "daily_chart", userID, logger))

	s.AddTool(mcp.NewTool("vitality",
		mcp.WithDescription("Vitality score from 0 to 100 with its state and the factors behind it."),
	), query(d, "vitality", userID, logger))

	s.AddTool(mcp.NewTool("day_health",
		mcp.WithDescription("Health score of one calendar day."),
		mcp.WithString("date", mcp.Description("YYYY-MM-DD; defaults to today")),
	), query(d, "day_health", userID, logger))

	return s
}

// Serve blocks serving s on stdin and stdout.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func newDispatcher(svc Services) *usecase.Dispatcher {
	d := usecase.NewDispatcher()

	d.RegisterQuery("list_deadlines", func(ctx context.Context, req usecase.Request) (any, error) {
		window, err := deadlineUC.ParseWindow(req.StringArg("filter", ""))
		if err != nil {
			return nil, err
		}
		deadlines, err := svc.Deadlines.List(ctx, req.UserID, deadlineUC.ListFilter{
			Window: window,
			Limit:  max(req.IntArg("limit", 0), 0),
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"deadlines": svc.Deadlines.Describe(deadlines)}, nil
	})
	d.RegisterCommand("complete_deadline", func(ctx context.Context, req usecase.Request) (any, error) {
		id := req.StringArg("id", "")
		if id == "" {
			return nil, domain.Invalid("id is required")
		}
		return svc.Deadlines.Complete(ctx, req.UserID, id)
	})
	d.RegisterQuery("weekly_stats", func(ctx context.Context, req usecase.Request) (any, error) {
		return svc.Stats.Weekly(ctx, req.UserID)
	})
	d.RegisterQuery("streak", func(ctx context.Context, req usecase.Request) (any, error) {
		return svc.Stats.Streak(ctx, req.UserID)
	})
	d.RegisterQuery("daily_chart", func(ctx context.Context, req usecase.Request) (any, error) {
		var weekStart *calendar.Day
		if raw := req.StringArg("week_start", ""); raw != "" {
			day, err := calendar.ParseDay(raw)
			if err != nil {
				return nil, domain.Invalid("week_start must be YYYY-MM-DD")
			}
			weekStart = &day
		}
		return svc.Stats.Chart(ctx, req.UserID, weekStart)
	})
	d.RegisterQuery("vitality", func(ctx context.Context, req usecase.Request) (any, error) {
		return svc.Stats.Vitality(ctx, req.UserID)
	})
	d.RegisterQuery("day_health", func(ctx context.Context, req usecase.Request) (any, error) {
		day := svc.Stats.Today()
		if raw := req.StringArg("date", ""); raw != "" {
			parsed, err := calendar.ParseDay(raw)
			if err != nil {
				return nil, domain.Invalid("date must be YYYY-MM-DD")
			}
			day = parsed
		}
		return svc.Stats.DayHealth(ctx, req.UserID, day)
	})
	return d
}

func query(d *usecase.Dispatcher, name, userID string, logger *zap.Logger) server.ToolHandlerFunc {
	return tool(d.ExecuteQuery, name, userID, logger)
}

func command(d *usecase.Dispatcher, name, userID string, logger *zap.Logger) server.ToolHandlerFunc {
	return tool(d.ExecuteCommand, name, userID, logger)
}

// tool answers with the JSON encoding of the result. Failures become tool errors so the
// client sees the message instead of a protocol error.
func tool(exec func(context.Context, string, usecase.Request) (any, error), name, userID string, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]any)
		out, err := exec(ctx, name, usecase.Request{UserID: userID, Args: args})
		if err != nil {
			logger.Warn("tool failed", zap.String("tool", name), zap.Error(err))
			return mcp.NewToolResultError(err.Error()), nil
		}
		data, err := json.Marshal(out)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
