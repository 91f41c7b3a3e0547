package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/deadliner/api/transport"
	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/pkg/httpcontext"
	authUC "github.com/fastygo/deadliner/usecase/auth"
)

// TokenSigner issues the bearer token for a stored session.
type TokenSigner interface {
	Sign(session *domain.Session) (string, error)
}

type AuthHandler struct {
	baseHandler
	uc         *authUC.UseCase
	signer     TokenSigner
	defaultTTL time.Duration
}

func NewAuthHandler(uc *authUC.UseCase, signer TokenSigner, adapter *httpcontext.Adapter, logger *zap.Logger, ttl time.Duration) *AuthHandler {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		signer:      signer,
		defaultTTL:  ttl,
	}
}

// @Summary Issue a new session and access token
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.AuthLoginRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if req.UserID == "" {
		h.respondError(stdCtx, ctx, domain.Invalid("user_id is required"))
		return
	}

	session, err := h.uc.CreateSession(stdCtx, req.UserID, h.ttlFromRequest(req.TTL))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondToken(stdCtx, ctx, http.StatusCreated, session)
}

// @Summary Refresh an existing session
// @Tags auth
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	var req transport.RefreshRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if req.SessionID == "" {
		h.respondError(stdCtx, ctx, domain.Invalid("session_id is required"))
		return
	}

	session, err := h.uc.RefreshSession(stdCtx, req.SessionID, h.ttlFromRequest(req.TTL))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondToken(stdCtx, ctx, http.StatusOK, session)
}

// @Summary Revoke a session; its tokens stop working immediately
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	var req transport.RefreshRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.RevokeSession(stdCtx, userID, req.SessionID); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

func (h *AuthHandler) respondToken(stdCtx context.Context, ctx *fasthttp.RequestCtx, status int, session *domain.Session) {
	token, err := h.signer.Sign(session)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, status, transport.LoginResponse{
		Session:     session,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   session.ExpiresAt,
	})
}

func (h *AuthHandler) ttlFromRequest(ttlSeconds int) time.Duration {
	if ttlSeconds <= 0 {
		return h.defaultTTL
	}
	return time.Duration(ttlSeconds) * time.Second
}
