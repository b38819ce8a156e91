package services

import (
	"context"
	"testing"
	"time"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven/mocks"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driving"
)

func newTestTwitterSocial() (*mocks.MockTwitterAPI, *mocks.MockCredentialStore, *TwitterSocialController) {
	api, store, auth := newTestTwitterAuth()
	controller := NewTwitterSocialController(TwitterSocialControllerConfig{Auth: auth, API: api})
	return api, store, controller
}

func TestTwitterGetUserAccountNeverConnected(t *testing.T) {
	_, _, controller := newTestTwitterSocial()

	env := controller.GetUserAccount(context.Background(), "42")
	if env.Status != domain.StatusMissing || env.Code != 404 {
		t.Errorf("expected missing 404, got %s %d", env.Status, env.Code)
	}
	if env.Platform != domain.ProviderTwitter {
		t.Errorf("expected platform twitter, got %s", env.Platform)
	}
}

func TestTwitterGetUserAccountProviderError(t *testing.T) {
	api, store, controller := newTestTwitterSocial()
	storeTwitterCredentials(t, store, "42", domain.TwitterCredentials{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	})

	api.GetMeFn = func(ctx context.Context, accessToken string) (*domain.TwitterAccount, error) {
		return nil, &domain.ProviderError{
			Platform: domain.ProviderTwitter,
			Status:   "rate_limit",
			Code:     88,
			Message:  "Rate limit exceeded",
		}
	}

	env := controller.GetUserAccount(context.Background(), "42")
	if env.Status != domain.StatusError || env.Code != 502 {
		t.Fatalf("expected error 502, got %s %d", env.Status, env.Code)
	}
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected provider error data, got %T", env.Data)
	}
	if data["provider_status"] != "rate_limit" || data["provider_code"] != 88 {
		t.Errorf("expected provider status and native code preserved, got %v", data)
	}
}

func TestTwitterPostAppendsImageURL(t *testing.T) {
	api, store, controller := newTestTwitterSocial()
	storeTwitterCredentials(t, store, "42", domain.TwitterCredentials{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	})

	var gotText string
	api.CreateTweetFn = func(ctx context.Context, accessToken, text string) (*domain.PostReceipt, error) {
		gotText = text
		return &domain.PostReceipt{ID: "tweet-9", Timestamp: time.Now()}, nil
	}

	env := controller.Post(context.Background(), driving.PostRequest{
		UserID:   "42",
		Message:  "hello",
		ImageURL: "https://example.com/pic.jpg",
	})
	if env.Status != domain.StatusSuccess {
		t.Fatalf("expected success, got %s: %s", env.Status, env.Message)
	}
	if gotText != "hello https://example.com/pic.jpg" {
		t.Errorf("expected image url appended to text, got %q", gotText)
	}
}

func TestTwitterPostRequiresMessage(t *testing.T) {
	_, _, controller := newTestTwitterSocial()

	env := controller.Post(context.Background(), driving.PostRequest{UserID: "42", ImageURL: "https://example.com/pic.jpg"})
	if env.Status != domain.StatusError || env.Code != 400 {
		t.Errorf("expected 400 error, got %s %d", env.Status, env.Code)
	}
}

func TestTwitterPostExpiredCredentials(t *testing.T) {
	_, store, controller := newTestTwitterSocial()
	storeTwitterCredentials(t, store, "42", domain.TwitterCredentials{
		AccessToken: "stale",
		ExpiresAt:   time.Now().Add(-48 * time.Hour).Unix(),
	})

	env := controller.Post(context.Background(), driving.PostRequest{UserID: "42", Message: "hello"})
	if env.Status != domain.StatusExpired || env.Code != 401 {
		t.Fatalf("expected expired 401, got %s %d", env.Status, env.Code)
	}
	if store.Count() != 0 {
		t.Error("unrefreshable expired credentials must be deleted")
	}
}

func TestTwitterPostRefreshesBeforePublishing(t *testing.T) {
	api, store, controller := newTestTwitterSocial()
	storeTwitterCredentials(t, store, "42", domain.TwitterCredentials{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(-time.Minute).Unix(),
	})

	var usedToken string
	api.CreateTweetFn = func(ctx context.Context, accessToken, text string) (*domain.PostReceipt, error) {
		usedToken = accessToken
		return &domain.PostReceipt{ID: "tweet-1", Timestamp: time.Now()}, nil
	}

	env := controller.Post(context.Background(), driving.PostRequest{UserID: "42", Message: "hello"})
	if env.Status != domain.StatusSuccess {
		t.Fatalf("expected success after refresh, got %s: %s", env.Status, env.Message)
	}
	if usedToken != "refreshed-access-token" {
		t.Errorf("publish must use the refreshed token, got %q", usedToken)
	}
}

func TestTwitterDeletePost(t *testing.T) {
	api, store, controller := newTestTwitterSocial()
	storeTwitterCredentials(t, store, "42", domain.TwitterCredentials{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	})

	var deleted string
	api.DeleteTweetFn = func(ctx context.Context, accessToken, tweetID string) (bool, error) {
		deleted = tweetID
		return true, nil
	}

	env := controller.DeletePost(context.Background(), "42", "tweet-9")
	if env.Status != domain.StatusSuccess {
		t.Fatalf("expected success, got %s", env.Status)
	}
	if deleted != "tweet-9" {
		t.Errorf("expected tweet-9 deleted, got %q", deleted)
	}
	data := env.Data.(map[string]any)
	if data["deleted"] != true {
		t.Errorf("expected deleted confirmation, got %v", data)
	}
}

func TestTwitterDeletePostRequiresID(t *testing.T) {
	_, _, controller := newTestTwitterSocial()

	env := controller.DeletePost(context.Background(), "42", "")
	if env.Status != domain.StatusError || env.Code != 400 {
		t.Errorf("expected 400 error, got %s %d", env.Status, env.Code)
	}
}

func TestTwitterTokenValidityEnvelope(t *testing.T) {
	_, store, controller := newTestTwitterSocial()

	env := controller.TokenValidity(context.Background(), "42")
	if env.Status != domain.StatusMissing {
		t.Errorf("expected missing for never-connected user, got %s", env.Status)
	}

	storeTwitterCredentials(t, store, "42", domain.TwitterCredentials{
		AccessToken:  "tok",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
	})

	env = controller.TokenValidity(context.Background(), "42")
	if env.Status != domain.StatusSuccess {
		t.Fatalf("expected success, got %s", env.Status)
	}
	validity := env.Data.(*domain.TokenValidity)
	if !validity.Valid || !validity.RefreshPossible || validity.Platform != domain.ProviderTwitter {
		t.Errorf("unexpected validity %+v", validity)
	}
}
