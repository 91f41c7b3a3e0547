package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/pkg/httpcontext"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrDeadlineNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("wrapped: %w", domain.ErrChildrenIncomplete), http.StatusConflict, "CONFLICT"},
		{domain.Invalid("bad"), http.StatusBadRequest, "INVALID"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := mapError(tc.err)
		if status != tc.status || code != tc.code {
			t.Errorf("mapError(%v) = %d %s, want %d %s", tc.err, status, code, tc.status, tc.code)
		}
	}
}

func TestQueryInt(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/x?limit=5&offset=-1&page=abc")
	if got := queryInt(&ctx, "limit", 0); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := queryInt(&ctx, "offset", 3); got != 3 {
		t.Fatalf("expected fallback for negative value, got %d", got)
	}
	if got := queryInt(&ctx, "page", 1); got != 1 {
		t.Fatalf("expected fallback for non-number, got %d", got)
	}
}

func TestUserIDMissingAnswers401(t *testing.T) {
	h := newBaseHandler(httpcontext.NewAdapter(0), nil)
	var ctx fasthttp.RequestCtx
	if id := h.userID(&ctx); id != "" {
		t.Fatalf("expected no user, got %q", id)
	}
	if ctx.Response.StatusCode() != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", ctx.Response.StatusCode())
	}

	ctx.Request.Header.Set(httpcontext.HeaderUserID, "u1")
	if id := h.userID(&ctx); id != "u1" {
		t.Fatalf("expected u1, got %q", id)
	}
}
