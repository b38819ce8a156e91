package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driving"
)

// socialFor resolves the path's {provider} segment to its controller.
func (s *Server) socialFor(w http.ResponseWriter, r *http.Request) (driving.SocialController, bool) {
	provider, err := domain.ParseProvider(r.PathValue("provider"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown provider")
		return nil, false
	}
	controller, ok := s.socials[provider]
	if !ok {
		writeError(w, http.StatusNotFound, "provider not configured")
		return nil, false
	}
	return controller, true
}

// writeEnvelope renders the uniform response envelope; its Code doubles
// as the HTTP status.
func writeEnvelope(w http.ResponseWriter, env domain.Envelope) {
	writeJSON(w, env.Code, env)
}

// handleUserAccount godoc
// @Summary      Account snapshot
// @Description  Returns the connected account's profile and metrics
// @Tags         Social
// @Produce      json
// @Param        provider  path      string  true  "Social provider"  Enums(threads, twitter)
// @Param        user_id   query     string  true  "External user id"
// @Success      200       {object}  domain.Envelope
// @Failure      401       {object}  domain.Envelope  "Credentials expired"
// @Failure      404       {object}  domain.Envelope  "Account not connected"
// @Security     ApiKeyAuth
// @Router       /{provider}/user_account [get]
func (s *Server) handleUserAccount(w http.ResponseWriter, r *http.Request) {
	controller, ok := s.socialFor(w, r)
	if !ok {
		return
	}
	writeEnvelope(w, controller.GetUserAccount(r.Context(), r.URL.Query().Get("user_id")))
}

// postParams reads the publish parameters from the query string, with a
// JSON body as the fallback for clients that prefer one.
func postParams(r *http.Request) driving.PostRequest {
	q := r.URL.Query()
	req := driving.PostRequest{
		UserID:   q.Get("user_id"),
		Message:  q.Get("message"),
		ImageURL: q.Get("image_url"),
	}
	if req.Message == "" && strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var body driving.PostRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			if req.UserID == "" {
				req.UserID = body.UserID
			}
			req.Message = body.Message
			if req.ImageURL == "" {
				req.ImageURL = body.ImageURL
			}
		}
	}
	return req
}

// handlePost godoc
// @Summary      Publish a post
// @Description  Publishes content to the provider; Threads runs the two-phase container flow
// @Tags         Social
// @Accept       json
// @Produce      json
// @Param        provider   path      string  true   "Social provider"  Enums(threads, twitter)
// @Param        user_id    query     string  true   "External user id"
// @Param        message    query     string  false  "Post text"
// @Param        image_url  query     string  false  "Image URL to attach"
// @Success      200        {object}  domain.Envelope
// @Failure      400        {object}  domain.Envelope  "Missing content"
// @Failure      401        {object}  domain.Envelope  "Credentials expired"
// @Failure      404        {object}  domain.Envelope  "Account not connected"
// @Security     ApiKeyAuth
// @Router       /{provider}/post [post]
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	controller, ok := s.socialFor(w, r)
	if !ok {
		return
	}
	writeEnvelope(w, controller.Post(r.Context(), postParams(r)))
}

// handleDeletePost godoc
// @Summary      Delete a post
// @Description  Removes a previously published post
// @Tags         Social
// @Produce      json
// @Param        provider  path      string  true  "Social provider"  Enums(threads, twitter)
// @Param        user_id   query     string  true  "External user id"
// @Param        id        query     string  true  "Post id"
// @Success      200       {object}  domain.Envelope
// @Failure      400       {object}  domain.Envelope
// @Security     ApiKeyAuth
// @Router       /{provider}/delete_post [post]
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	controller, ok := s.socialFor(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	writeEnvelope(w, controller.DeletePost(r.Context(), q.Get("user_id"), q.Get("id")))
}

// handleSocialTokenValidity godoc
// @Summary      Token validity envelope
// @Description  Wraps the auth handler's validity snapshot in the response envelope
// @Tags         Social
// @Produce      json
// @Param        provider  path      string  true  "Social provider"  Enums(threads, twitter)
// @Param        user_id   query     string  true  "External user id"
// @Success      200       {object}  domain.Envelope
// @Failure      404       {object}  domain.Envelope  "Account not connected"
// @Security     ApiKeyAuth
// @Router       /{provider}/token_validity [get]
func (s *Server) handleSocialTokenValidity(w http.ResponseWriter, r *http.Request) {
	controller, ok := s.socialFor(w, r)
	if !ok {
		return
	}
	writeEnvelope(w, controller.TokenValidity(r.Context(), r.URL.Query().Get("user_id")))
}
