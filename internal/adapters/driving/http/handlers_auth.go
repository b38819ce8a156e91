package http

import (
	"errors"
	"net/http"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driving"
)

// AuthorizationResponse carries the URL to present to the user.
// @Description Authorization URL for the OAuth flow
type AuthorizationResponse struct {
	URL string `json:"url" example:"https://threads.net/oauth/authorize?..."`
}

// authHandlerFor resolves the path's {provider} segment to its handler.
func (s *Server) authHandlerFor(w http.ResponseWriter, r *http.Request) (driving.AuthHandler, bool) {
	provider, err := domain.ParseProvider(r.PathValue("provider"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown provider")
		return nil, false
	}
	handler, ok := s.auth[provider]
	if !ok {
		writeError(w, http.StatusNotFound, "provider not configured")
		return nil, false
	}
	return handler, true
}

// requireUserID extracts the user_id query parameter.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user_id")
		return "", false
	}
	return userID, true
}

// writeAuthError maps auth handler errors to HTTP status codes.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingParameter):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotConnected):
		writeError(w, http.StatusNotFound, "account not connected")
	default:
		writeError(w, http.StatusInternalServerError, "operation failed")
	}
}

// handleConnect godoc
// @Summary      Start an OAuth authorization flow
// @Description  Returns the provider authorization URL for the user to visit
// @Tags         Auth
// @Produce      json
// @Param        provider  path      string  true  "Social provider"  Enums(threads, twitter)
// @Param        user_id   query     string  true  "External user id"
// @Success      200       {object}  AuthorizationResponse
// @Failure      400       {object}  ErrorResponse  "Missing user_id"
// @Failure      404       {object}  ErrorResponse  "Unknown provider"
// @Security     ApiKeyAuth
// @Router       /auth/{provider}/connect [get]
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	handler, ok := s.authHandlerFor(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	authz, err := handler.Authorize(r.Context(), userID)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthorizationResponse{URL: authz.URL})
}

// handleCallback godoc
// @Summary      OAuth provider callback
// @Description  Completes the authorization flow and renders a landing page. Public endpoint; always answers with HTML.
// @Tags         Auth
// @Produce      html
// @Param        provider  path   string  true   "Social provider"  Enums(threads, twitter)
// @Param        state     query  string  true   "OAuth state"
// @Param        code      query  string  false  "Authorization code"
// @Param        error     query  string  false  "Provider error code"
// @Success      200  {string}  string  "HTML landing page"
// @Router       /auth/{provider}/callback [get]
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	provider, err := domain.ParseProvider(r.PathValue("provider"))
	if err != nil {
		s.pages.renderFailure(w, "", "Unknown provider.")
		return
	}

	// This endpoint is reachable by unauthenticated third parties; any
	// failure must resolve to a user-facing page, never a raw 500.
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("callback panic", "platform", provider, "error", rec)
			s.pages.renderFailure(w, provider, "")
		}
	}()

	handler, ok := s.auth[provider]
	if !ok {
		s.pages.renderFailure(w, provider, "Provider not configured.")
		return
	}

	q := r.URL.Query()
	result := handler.CompleteAuthorization(r.Context(), driving.CallbackRequest{
		State:            q.Get("state"),
		Code:             q.Get("code"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
		RedirectURI:      s.externalCallbackURL(r),
	})

	if result.Succeeded() {
		s.logger.Info("authorization completed", "platform", provider, "user_id", result.UserID)
		s.pages.renderSuccess(w, provider)
		return
	}

	s.logger.Warn("authorization failed", "platform", provider, "user_id", result.UserID, "error", result.Err)
	switch {
	case errors.Is(result.Err, domain.ErrInvalidOAuthState):
		s.pages.renderFailure(w, provider, "This authorization link has expired. Please start again from the bot.")
	default:
		s.pages.renderFailure(w, provider, "")
	}
}

// externalCallbackURL reconstructs the callback URL the provider
// redirected to. Behind a proxy the request arrives as plain HTTP, so
// X-Forwarded-Proto decides the scheme; the token exchange must present
// the exact registered URL.
func (s *Server) externalCallbackURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.Path
}

// handleDisconnect godoc
// @Summary      Disconnect an account
// @Description  Deletes stored credentials and any pending OAuth state. Idempotent.
// @Tags         Auth
// @Produce      json
// @Param        provider  path      string  true  "Social provider"  Enums(threads, twitter)
// @Param        user_id   query     string  true  "External user id"
// @Success      200       {object}  StatusResponse
// @Failure      400       {object}  ErrorResponse
// @Security     ApiKeyAuth
// @Router       /auth/{provider}/disconnect [post]
func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	handler, ok := s.authHandlerFor(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := handler.Disconnect(r.Context(), userID); err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIsConnected godoc
// @Summary      Check whether an account is connected
// @Description  Reports whether usable credentials exist; expired unrefreshable credentials are removed on the way
// @Tags         Auth
// @Produce      json
// @Param        provider  path      string  true  "Social provider"  Enums(threads, twitter)
// @Param        user_id   query     string  true  "External user id"
// @Success      200       {boolean}  boolean
// @Failure      400       {object}  ErrorResponse
// @Security     ApiKeyAuth
// @Router       /auth/{provider}/is_connected [get]
func (s *Server) handleIsConnected(w http.ResponseWriter, r *http.Request) {
	handler, ok := s.authHandlerFor(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	connected, err := handler.IsConnected(r.Context(), userID)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, connected)
}

// handleTokenValidity godoc
// @Summary      Token validity snapshot
// @Description  Returns validity, seconds until expiry and refreshability of stored credentials
// @Tags         Auth
// @Produce      json
// @Param        provider  path      string  true  "Social provider"  Enums(threads, twitter)
// @Param        user_id   query     string  true  "External user id"
// @Success      200       {object}  domain.TokenValidity
// @Failure      400       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse  "Not connected"
// @Security     ApiKeyAuth
// @Router       /auth/{provider}/token_validity [get]
func (s *Server) handleTokenValidity(w http.ResponseWriter, r *http.Request) {
	handler, ok := s.authHandlerFor(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	validity, err := handler.GetTokenValidity(r.Context(), userID)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validity)
}

// handleRefreshToken godoc
// @Summary      Refresh stored credentials
// @Description  Attempts a token refresh and reports whether it succeeded
// @Tags         Auth
// @Produce      json
// @Param        provider  path      string  true  "Social provider"  Enums(threads, twitter)
// @Param        user_id   query     string  true  "External user id"
// @Success      200       {boolean}  boolean
// @Failure      400       {object}  ErrorResponse
// @Security     ApiKeyAuth
// @Router       /auth/{provider}/refresh_token [post]
func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	handler, ok := s.authHandlerFor(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, handler.RefreshToken(r.Context(), userID))
}
