package domain

import "time"

// ThreadsInsights aggregates account-level metric totals from the
// insights endpoint.
type ThreadsInsights struct {
	Views          int64 `json:"views"`
	Likes          int64 `json:"likes"`
	Replies        int64 `json:"replies"`
	Reposts        int64 `json:"reposts"`
	Quotes         int64 `json:"quotes"`
	FollowersCount int64 `json:"followers_count"`
}

// ThreadsAccount is the profile snapshot for a connected Threads user.
type ThreadsAccount struct {
	ID                string          `json:"id"`
	Username          string          `json:"username"`
	Biography         string          `json:"biography,omitempty"`
	ProfilePictureURL string          `json:"profile_picture_url,omitempty"`
	Insights          ThreadsInsights `json:"insights"`
}

// TwitterPublicMetrics mirrors the public_metrics object of the users
// endpoint.
type TwitterPublicMetrics struct {
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	TweetCount     int64 `json:"tweet_count"`
	ListedCount    int64 `json:"listed_count"`
}

// TwitterAccount is the profile snapshot for a connected Twitter user.
type TwitterAccount struct {
	ID              string               `json:"id"`
	Username        string               `json:"username"`
	Name            string               `json:"name"`
	Description     string               `json:"description,omitempty"`
	ProfileImageURL string               `json:"profile_image_url,omitempty"`
	Verified        bool                 `json:"verified"`
	CreatedAt       string               `json:"created_at,omitempty"`
	PublicMetrics   TwitterPublicMetrics `json:"public_metrics"`
}

// PostReceipt identifies a published post.
type PostReceipt struct {
	ID        string    `json:"id"`
	Permalink string    `json:"permalink,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
