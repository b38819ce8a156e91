package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/AshesOfPhoenix/telepost/internal/adapters/driven/auth"
	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven/mocks"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driving"
	"github.com/AshesOfPhoenix/telepost/internal/core/services"
)

const testAPIKey = "test-api-key"

type testEnv struct {
	server       *Server
	threadsAPI   *mocks.MockThreadsAPI
	twitterAPI   *mocks.MockTwitterAPI
	threadsStore *mocks.MockCredentialStore
	threadsAuth  *services.ThreadsAuthHandler
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	threadsAPI := mocks.NewMockThreadsAPI()
	twitterAPI := mocks.NewMockTwitterAPI()
	threadsStore := mocks.NewMockCredentialStore()
	twitterStore := mocks.NewMockCredentialStore()
	signer := auth.NewStateSigner("test-secret")

	threadsAuth := services.NewThreadsAuthHandler(services.ThreadsAuthHandlerConfig{
		API:         threadsAPI,
		Store:       threadsStore,
		Signer:      signer,
		RedirectURI: "https://api.example.com/auth/threads/callback",
	})
	twitterAuth := services.NewTwitterAuthHandler(services.TwitterAuthHandlerConfig{
		API:         twitterAPI,
		Store:       twitterStore,
		Signer:      signer,
		RedirectURI: "https://api.example.com/auth/twitter/callback",
	})

	threadsSocial := services.NewThreadsSocialController(services.ThreadsSocialControllerConfig{Auth: threadsAuth, API: threadsAPI})
	twitterSocial := services.NewTwitterSocialController(services.TwitterSocialControllerConfig{Auth: twitterAuth, API: twitterAPI})

	server := NewServer(
		Config{
			Host:            "127.0.0.1",
			Port:            0,
			Version:         "test",
			APIKey:          testAPIKey,
			TelegramBotName: "telepost_bot",
		},
		[]driving.AuthHandler{threadsAuth, twitterAuth},
		[]driving.SocialController{threadsSocial, twitterSocial},
		nil, nil, nil,
	)

	return &testEnv{
		server:       server,
		threadsAPI:   threadsAPI,
		twitterAPI:   twitterAPI,
		threadsStore: threadsStore,
		threadsAuth:  threadsAuth,
	}
}

func (e *testEnv) do(method, target string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if authed {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func stateFromURL(t *testing.T, authURL string) string {
	t.Helper()
	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("parse auth url: %v", err)
	}
	state := parsed.Query().Get("state")
	if state == "" {
		t.Fatalf("no state in %q", authURL)
	}
	return state
}

func TestProtectedEndpointRequiresAPIKey(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(http.MethodGet, "/threads/user_account?user_id=42", false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/threads/user_account?user_id=42", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	rec = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", rec.Code)
	}

	rec = env.do(http.MethodGet, "/threads/user_account?user_id=42", true)
	if rec.Code == http.StatusUnauthorized {
		t.Error("valid key must pass the api key check")
	}
}

func TestPublicEndpointsSkipAPIKey(t *testing.T) {
	env := newTestServer(t)

	for _, target := range []string{"/", "/health", "/ready", "/auth/threads/callback"} {
		rec := env.do(http.MethodGet, target, false)
		if rec.Code == http.StatusUnauthorized {
			t.Errorf("%s must be public, got 401", target)
		}
	}
}

func TestHealth(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(http.MethodGet, "/health", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected ok status, got %v", body)
	}
}

func TestRootBanner(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(http.MethodGet, "/", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "telepost") {
		t.Errorf("expected service banner, got %s", rec.Body.String())
	}
}

func TestConnectReturnsAuthorizationURL(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(http.MethodGet, "/auth/threads/connect?user_id=42", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body AuthorizationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !strings.Contains(body.URL, "state=") {
		t.Errorf("expected a state-carrying url, got %q", body.URL)
	}
}

func TestConnectRequiresUserID(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(http.MethodGet, "/auth/threads/connect", true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUnknownProvider(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(http.MethodGet, "/auth/mastodon/connect?user_id=42", true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown provider, got %d", rec.Code)
	}
}

func TestCallbackRendersSuccessPage(t *testing.T) {
	env := newTestServer(t)

	authz, err := env.threadsAuth.Authorize(context.Background(), "42")
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	state := stateFromURL(t, authz.URL)

	rec := env.do(http.MethodGet, "/auth/threads/callback?state="+url.QueryEscape(state)+"&code=auth-code", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected html page, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "connected") {
		t.Error("expected the success page")
	}
	if !strings.Contains(rec.Body.String(), "t.me/telepost_bot") {
		t.Error("expected the telegram deep link")
	}
	if env.threadsStore.Count() != 1 {
		t.Error("expected credentials stored after callback")
	}
}

func TestCallbackUnknownStateRendersFailurePage(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(http.MethodGet, "/auth/threads/callback?state=stale-state&code=auth-code", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("public callback must not surface errors as status codes, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "expired") {
		t.Errorf("expected the stale-link failure page, got %s", rec.Body.String())
	}
	if env.threadsStore.Count() != 0 {
		t.Error("nothing must be stored for an unknown state")
	}
}

func TestCallbackCorrectsSchemeFromForwardedProto(t *testing.T) {
	env := newTestServer(t)

	var gotRedirectURI string
	env.twitterAPI.ExchangeCodeFn = func(ctx context.Context, code, verifier, redirectURI string) (*driven.TwitterToken, error) {
		gotRedirectURI = redirectURI
		return mocks.NewMockTwitterAPI().ExchangeCode(ctx, code, verifier, redirectURI)
	}

	authz, err := env.server.auth[domain.ProviderTwitter].Authorize(context.Background(), "42")
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	state := stateFromURL(t, authz.URL)

	req := httptest.NewRequest(http.MethodGet, "/auth/twitter/callback?state="+url.QueryEscape(state)+"&code=c", nil)
	req.Host = "api.example.com"
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	if gotRedirectURI != "https://api.example.com/auth/twitter/callback" {
		t.Errorf("expected scheme-corrected redirect uri, got %q", gotRedirectURI)
	}
}

func TestIsConnected(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(http.MethodGet, "/auth/threads/is_connected?user_id=42", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "false" {
		t.Errorf("expected bare false, got %s", rec.Body.String())
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	env := newTestServer(t)

	for i := 0; i < 2; i++ {
		rec := env.do(http.MethodPost, "/auth/threads/disconnect?user_id=42", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on attempt %d, got %d", i+1, rec.Code)
		}
	}
}

func TestTokenValidityNotConnected(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(http.MethodGet, "/auth/threads/token_validity?user_id=42", true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 when not connected, got %d", rec.Code)
	}
}

func TestRefreshTokenReturnsBool(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(http.MethodPost, "/auth/twitter/refresh_token?user_id=42", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "false" {
		t.Errorf("expected false for unconnected user, got %s", rec.Body.String())
	}
}

func TestUserAccountEnvelopeNotConnected(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(http.MethodGet, "/threads/user_account?user_id=42", true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var env2 domain.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env2); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env2.Status != domain.StatusMissing || env2.Platform != domain.ProviderThreads {
		t.Errorf("unexpected envelope %+v", env2)
	}
}

func TestPostViaQueryParams(t *testing.T) {
	env := newTestServer(t)

	authz, err := env.threadsAuth.Authorize(context.Background(), "42")
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	state := stateFromURL(t, authz.URL)
	env.do(http.MethodGet, "/auth/threads/callback?state="+url.QueryEscape(state)+"&code=auth-code", false)

	rec := env.do(http.MethodPost, "/threads/post?user_id=42&message=hello", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope domain.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Status != domain.StatusSuccess {
		t.Errorf("expected success, got %s: %s", envelope.Status, envelope.Message)
	}
}

func TestDeletePostRequiresID(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(http.MethodPost, "/threads/delete_post?user_id=42", true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without post id, got %d", rec.Code)
	}
}
