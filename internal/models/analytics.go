package models

import "time"

// UserAnalytics is the per-user read-only view. Posts without an analysis
// count toward TotalPosts but contribute no score samples, so the averages
// are nil when no post has been analyzed.
type UserAnalytics struct {
	UserID        uint       `json:"user_id"`
	TotalPosts    int64      `json:"total_posts"`
	AvgEngagement *float64   `json:"avg_engagement"`
	AvgSentiment  *float64   `json:"avg_sentiment"`
	LastPostAt    *time.Time `json:"last_post_at"`
}

// PostPerformance is the per-post read-only view: content plus analysis
// scores (nil when the post has no analysis) plus attached tag names.
type PostPerformance struct {
	PostID      uint       `json:"post_id"`
	Content     string     `json:"content"`
	Status      PostStatus `json:"status"`
	Sentiment   *float64   `json:"sentiment"`
	Engagement  *float64   `json:"engagement"`
	Readability *float64   `json:"readability"`
	Suggestions string     `json:"suggestions,omitempty"`
	Keywords    string     `json:"keywords,omitempty"`
	Tags        []string   `json:"tags"`
}
