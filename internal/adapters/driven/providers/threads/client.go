package threads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
	"github.com/AshesOfPhoenix/telepost/internal/metrics"
)

// Ensure Client implements the port.
var _ driven.ThreadsAPI = (*Client)(nil)

const (
	defaultAPIURL  = "https://graph.threads.net"
	defaultAuthURL = "https://threads.net"
	graphVersion   = "v1.0"
)

// Config holds the Threads app registration and endpoint overrides.
// APIURL and AuthURL default to the production Graph endpoints; tests
// point them at a local server.
type Config struct {
	AppID     string
	AppSecret string
	APIURL    string
	AuthURL   string
	Scopes    []string
	Logger    *slog.Logger
}

// Client calls the Threads Graph API. Tokens are passed per call; the
// client itself holds only the app registration.
type Client struct {
	appID      string
	appSecret  string
	apiURL     string
	authURL    string
	scopes     []string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Threads Graph API client.
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
		appID:     cfg.AppID,
		appSecret: cfg.AppSecret,
		apiURL:    strings.TrimSuffix(apiURL, "/"),
		authURL:   strings.TrimSuffix(authURL, "/"),
		scopes:    cfg.Scopes,
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

// BuildAuthURL returns the user-facing authorization URL. Threads scopes
// are comma-delimited in the query string.
func (c *Client) BuildAuthURL(state, redirectURI string) string {
	q := url.Values{}
	q.Set("client_id", c.appID)
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", strings.Join(c.scopes, ","))
	q.Set("response_type", "code")
	q.Set("state", state)
	return c.authURL + "/oauth/authorize?" + q.Encode()
}

// tokenResponse covers the three token endpoints. user_id arrives as a
// JSON number on the code exchange and is absent elsewhere.
type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	UserID      json.Number `json:"user_id"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
}

// ExchangeCode trades an authorization code for a short-lived token.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*driven.ThreadsToken, error) {
	form := url.Values{}
	form.Set("client_id", c.appID)
	form.Set("client_secret", c.appSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", redirectURI)
	form.Set("code", code)

	var tok tokenResponse
	if err := c.postForm(ctx, "exchange_code", "/oauth/access_token", form, &tok); err != nil {
		return nil, err
	}
	return &driven.ThreadsToken{AccessToken: tok.AccessToken, UserID: tok.UserID.String()}, nil
}

// ExchangeLongLived trades a short-lived token for a long-lived one.
// The long-lived grants are plain GETs on the Graph host.
func (c *Client) ExchangeLongLived(ctx context.Context, accessToken string) (*driven.ThreadsToken, error) {
	q := url.Values{}
	q.Set("grant_type", "th_exchange_token")
	q.Set("client_secret", c.appSecret)
	q.Set("access_token", accessToken)

	var tok tokenResponse
	if err := c.getJSON(ctx, "exchange_long_lived", "/access_token?"+q.Encode(), &tok); err != nil {
		return nil, err
	}
	return &driven.ThreadsToken{AccessToken: tok.AccessToken, ExpiresIn: tok.ExpiresIn}, nil
}

// RefreshToken extends an unexpired long-lived token.
func (c *Client) RefreshToken(ctx context.Context, accessToken string) (*driven.ThreadsToken, error) {
	q := url.Values{}
	q.Set("grant_type", "th_refresh_token")
	q.Set("access_token", accessToken)

	var tok tokenResponse
	if err := c.getJSON(ctx, "refresh_token", "/refresh_access_token?"+q.Encode(), &tok); err != nil {
		return nil, err
	}
	return &driven.ThreadsToken{AccessToken: tok.AccessToken, ExpiresIn: tok.ExpiresIn}, nil
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context, accessToken, userID string) (*domain.ThreadsAccount, error) {
	q := url.Values{}
	q.Set("fields", "id,username,threads_biography,threads_profile_picture_url")
	q.Set("access_token", accessToken)

	var profile struct {
		ID                string `json:"id"`
		Username          string `json:"username"`
		Biography         string `json:"threads_biography"`
		ProfilePictureURL string `json:"threads_profile_picture_url"`
	}
	if err := c.getJSON(ctx, "get_profile", c.graphPath(userID)+"?"+q.Encode(), &profile); err != nil {
		return nil, err
	}
	return &domain.ThreadsAccount{
		ID:                profile.ID,
		Username:          profile.Username,
		Biography:         profile.Biography,
		ProfilePictureURL: profile.ProfilePictureURL,
	}, nil
}

// insightsResponse is the Graph insights payload. Lifetime metrics carry
// a total_value object, windowed metrics a values series; the last series
// entry is the current total.
type insightsResponse struct {
	Data []struct {
		Name       string `json:"name"`
		TotalValue *struct {
			Value int64 `json:"value"`
		} `json:"total_value"`
		Values []struct {
			Value int64 `json:"value"`
		} `json:"values"`
	} `json:"data"`
}

// GetInsights fetches account-level metric totals.
func (c *Client) GetInsights(ctx context.Context, accessToken, userID string) (*domain.ThreadsInsights, error) {
	q := url.Values{}
	q.Set("metric", "views,likes,replies,reposts,quotes,followers_count")
	q.Set("access_token", accessToken)

	var resp insightsResponse
	if err := c.getJSON(ctx, "get_insights", c.graphPath(userID)+"/threads_insights?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	insights := &domain.ThreadsInsights{}
	for _, metric := range resp.Data {
		var value int64
		switch {
		case metric.TotalValue != nil:
			value = metric.TotalValue.Value
		case len(metric.Values) > 0:
			value = metric.Values[len(metric.Values)-1].Value
		}
		switch metric.Name {
		case "views":
			insights.Views = value
		case "likes":
			insights.Likes = value
		case "replies":
			insights.Replies = value
		case "reposts":
			insights.Reposts = value
		case "quotes":
			insights.Quotes = value
		case "followers_count":
			insights.FollowersCount = value
		}
	}
	return insights, nil
}

// CreateContainer creates an unpublished post container.
func (c *Client) CreateContainer(ctx context.Context, accessToken, userID, text, imageURL string) (string, error) {
	form := url.Values{}
	form.Set("access_token", accessToken)
	if imageURL != "" {
		form.Set("media_type", "IMAGE")
		form.Set("image_url", imageURL)
	} else {
		form.Set("media_type", "TEXT")
	}
	if text != "" {
		form.Set("text", text)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.postForm(ctx, "create_container", c.graphPath(userID)+"/threads", form, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// ContainerStatus reports a container's readiness state.
func (c *Client) ContainerStatus(ctx context.Context, accessToken, containerID string) (string, error) {
	q := url.Values{}
	q.Set("fields", "status,error_message")
	q.Set("access_token", accessToken)

	var status struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	}
	if err := c.getJSON(ctx, "container_status", c.graphPath(containerID)+"?"+q.Encode(), &status); err != nil {
		return "", err
	}
	if status.Status == "ERROR" && status.ErrorMessage != "" {
		c.logger.Warn("threads container failed", "container_id", containerID, "error_message", status.ErrorMessage)
	}
	return status.Status, nil
}

// PublishContainer publishes a ready container and returns the post id.
func (c *Client) PublishContainer(ctx context.Context, accessToken, userID, containerID string) (string, error) {
	form := url.Values{}
	form.Set("creation_id", containerID)
	form.Set("access_token", accessToken)

	var published struct {
		ID string `json:"id"`
	}
	if err := c.postForm(ctx, "publish_container", c.graphPath(userID)+"/threads_publish", form, &published); err != nil {
		return "", err
	}
	return published.ID, nil
}

// GetPost fetches a published post's permalink and timestamp.
func (c *Client) GetPost(ctx context.Context, accessToken, postID string) (*domain.PostReceipt, error) {
	q := url.Values{}
	q.Set("fields", "id,permalink,timestamp")
	q.Set("access_token", accessToken)

	var post struct {
		ID        string `json:"id"`
		Permalink string `json:"permalink"`
		Timestamp string `json:"timestamp"`
	}
	if err := c.getJSON(ctx, "get_post", c.graphPath(postID)+"?"+q.Encode(), &post); err != nil {
		return nil, err
	}

	receipt := &domain.PostReceipt{ID: post.ID, Permalink: post.Permalink}
	if ts, err := time.Parse("2006-01-02T15:04:05-0700", post.Timestamp); err == nil {
		receipt.Timestamp = ts
	} else if ts, err := time.Parse(time.RFC3339, post.Timestamp); err == nil {
		receipt.Timestamp = ts
	}
	return receipt, nil
}

// DeletePost removes a published post via a raw Graph DELETE.
func (c *Client) DeletePost(ctx context.Context, accessToken, postID string) error {
	q := url.Values{}
	q.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.apiURL+c.graphPath(postID)+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordProviderCall(string(domain.ProviderThreads), "delete_post", "error")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.RecordProviderCall(string(domain.ProviderThreads), "delete_post", "error")
		return c.apiError(resp)
	}
	metrics.RecordProviderCall(string(domain.ProviderThreads), "delete_post", "ok")
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) graphPath(id string) string {
	return "/" + graphVersion + "/" + id
}

func (c *Client) getJSON(ctx context.Context, operation, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, operation, out)
}

func (c *Client) postForm(ctx context.Context, operation, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, operation, out)
}

func (c *Client) do(req *http.Request, operation string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordProviderCall(string(domain.ProviderThreads), operation, "error")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.RecordProviderCall(string(domain.ProviderThreads), operation, "error")
		return c.apiError(resp)
	}
	metrics.RecordProviderCall(string(domain.ProviderThreads), operation, "ok")
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// graphError is the Graph API error envelope.
type graphError struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
	} `json:"error"`
}

// apiError converts a non-2xx Graph response into a ProviderError.
func (c *Client) apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))

	perr := &domain.ProviderError{
		Platform: domain.ProviderThreads,
		Status:   statusFromHTTP(resp.StatusCode),
		Message:  fmt.Sprintf("threads api returned %d", resp.StatusCode),
		Detail:   string(body),
	}
	var ge graphError
	if err := json.Unmarshal(body, &ge); err == nil && ge.Error.Message != "" {
		perr.Code = ge.Error.Code
		perr.Message = ge.Error.Message
	}
	return perr
}

// statusFromHTTP maps an HTTP status to the stable internal status used
// in response envelopes.
func statusFromHTTP(httpStatus int) string {
	switch httpStatus {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusTooManyRequests:
		return "rate_limit"
	default:
		return "error"
	}
}
