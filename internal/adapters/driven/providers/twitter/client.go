package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
	"github.com/AshesOfPhoenix/telepost/internal/metrics"
)

// Ensure Client implements the port.
var _ driven.TwitterAPI = (*Client)(nil)

const (
	defaultAPIURL  = "https://api.x.com"
	defaultAuthURL = "https://x.com/i/oauth2/authorize"
)

// Config holds the Twitter app registration and endpoint overrides.
type Config struct {
	ClientID     string
	ClientSecret string
	APIURL       string
	AuthURL      string
	Scopes       []string
	Logger       *slog.Logger
}

// Client calls the Twitter v2 API. The OAuth mechanics (PKCE challenge,
// code exchange, refresh grant) run through golang.org/x/oauth2; data
// calls carry the bearer token per request.
type Client struct {
	clientID     string
	clientSecret string
	apiURL       string
	authURL      string
	scopes       []string
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewClient creates a Twitter v2 API client.
func NewClient(cfg Config) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = defaultAuthURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		apiURL:       strings.TrimSuffix(apiURL, "/"),
		authURL:      authURL,
		scopes:       cfg.Scopes,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 20 * time.Second,
			},
		},
		logger: logger,
	}
}

func (c *Client) oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       c.scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.authURL,
			TokenURL:  c.apiURL + "/2/oauth2/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// oauthContext routes the token endpoints through our HTTP client.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// BuildAuthURL returns the authorization URL with the S256 challenge
// derived from verifier.
func (c *Client) BuildAuthURL(state, verifier, redirectURI string) string {
	return c.oauthConfig(redirectURI).AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// ExchangeCode trades an authorization code plus PKCE verifier for a
// token pair.
func (c *Client) ExchangeCode(ctx context.Context, code, verifier, redirectURI string) (*driven.TwitterToken, error) {
	tok, err := c.oauthConfig(redirectURI).Exchange(c.oauthContext(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		metrics.RecordProviderCall(string(domain.ProviderTwitter), "exchange_code", "error")
		return nil, exchangeError(err)
	}
	metrics.RecordProviderCall(string(domain.ProviderTwitter), "exchange_code", "ok")
	return tokenFromOAuth2(tok, ""), nil
}

// RefreshToken trades a refresh token for a fresh token pair. The old
// refresh token is kept when the provider does not rotate it.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*driven.TwitterToken, error) {
	source := c.oauthConfig("").TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := source.Token()
	if err != nil {
		metrics.RecordProviderCall(string(domain.ProviderTwitter), "refresh_token", "error")
		return nil, exchangeError(err)
	}
	metrics.RecordProviderCall(string(domain.ProviderTwitter), "refresh_token", "ok")
	return tokenFromOAuth2(tok, refreshToken), nil
}

func tokenFromOAuth2(tok *oauth2.Token, fallbackRefresh string) *driven.TwitterToken {
	out := &driven.TwitterToken{
		TokenType:    tok.TokenType,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if out.RefreshToken == "" {
		out.RefreshToken = fallbackRefresh
	}
	if !tok.Expiry.IsZero() {
		out.ExpiresAt = tok.Expiry.Unix()
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		out.Scope = scope
	}
	return out
}

// exchangeError unwraps an oauth2 retrieve failure into a ProviderError
// so the token endpoints report through the same taxonomy as data calls.
func exchangeError(err error) error {
	if rerr, ok := err.(*oauth2.RetrieveError); ok {
		return providerError(rerr.Response.StatusCode, rerr.Body)
	}
	return fmt.Errorf("token request: %w", err)
}

// GetMe fetches the authenticated user's profile with public metrics.
func (c *Client) GetMe(ctx context.Context, accessToken string) (*domain.TwitterAccount, error) {
	var resp struct {
		Data domain.TwitterAccount `json:"data"`
	}
	path := "/2/users/me?user.fields=id,username,name,description,profile_image_url,verified,created_at,public_metrics"
	if err := c.doJSON(ctx, "get_me", http.MethodGet, path, accessToken, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CreateTweet posts a tweet and returns its receipt.
func (c *Client) CreateTweet(ctx context.Context, accessToken, text string) (*domain.PostReceipt, error) {
	payload := map[string]string{"text": text}
	var resp struct {
		Data struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"data"`
	}
	if err := c.doJSON(ctx, "create_tweet", http.MethodPost, "/2/tweets", accessToken, payload, &resp); err != nil {
		return nil, err
	}
	return &domain.PostReceipt{ID: resp.Data.ID, Timestamp: time.Now().UTC()}, nil
}

// DeleteTweet removes a tweet. The returned flag reports whether the
// provider confirmed the deletion.
func (c *Client) DeleteTweet(ctx context.Context, accessToken, tweetID string) (bool, error) {
	var resp struct {
		Data struct {
			Deleted bool `json:"deleted"`
		} `json:"data"`
	}
	if err := c.doJSON(ctx, "delete_tweet", http.MethodDelete, "/2/tweets/"+tweetID, accessToken, nil, &resp); err != nil {
		return false, err
	}
	return resp.Data.Deleted, nil
}

func (c *Client) doJSON(ctx context.Context, operation, method, path, accessToken string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordProviderCall(string(domain.ProviderTwitter), operation, "error")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.RecordProviderCall(string(domain.ProviderTwitter), operation, "error")
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return providerError(resp.StatusCode, raw)
	}
	metrics.RecordProviderCall(string(domain.ProviderTwitter), operation, "ok")
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
