package repository

import (
	"context"
	"errors"
	"time"

	"cadence/internal/models"
	"cadence/internal/observability"

	"gorm.io/gorm"
)

// AnalyticsRepository serves the read-only aggregate views. Each query runs
// in a single transaction so the returned snapshot is internally consistent.
type AnalyticsRepository interface {
	UserAnalytics(ctx context.Context, userID uint) (*models.UserAnalytics, error)
	PostPerformance(ctx context.Context, postID uint) (*models.PostPerformance, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository returns a new AnalyticsRepository implementation.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) UserAnalytics(ctx context.Context, userID uint) (*models.UserAnalytics, error) {
	defer observability.TrackQuery("aggregate", "users")()

	out := &models.UserAnalytics{UserID: userID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewNotFoundError("User", userID)
		}

		var stats struct {
			TotalPosts    int64
			AvgEngagement *float64
			AvgSentiment  *float64
		}
		err := tx.Model(&models.Post{}).
			Select(
				"COUNT(posts.id) AS total_posts",
				"AVG(analysis.engagement) AS avg_engagement",
				"AVG(analysis.sentiment) AS avg_sentiment",
			).
			Joins("LEFT JOIN analysis ON analysis.post_id = posts.id").
			Where("posts.user_id = ? AND posts.deleted_at IS NULL", userID).
			Scan(&stats).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		out.TotalPosts = stats.TotalPosts
		out.AvgEngagement = stats.AvgEngagement
		out.AvgSentiment = stats.AvgSentiment

		if stats.TotalPosts > 0 {
			var latest []time.Time
			err := tx.Model(&models.Post{}).
				Where("user_id = ?", userID).
				Order("created_at DESC").
				Limit(1).
				Pluck("created_at", &latest).Error
			if err != nil {
				return models.NewInternalError(err)
			}
			if len(latest) > 0 {
				out.LastPostAt = &latest[0]
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *analyticsRepository) PostPerformance(ctx context.Context, postID uint) (*models.PostPerformance, error) {
	defer observability.TrackQuery("aggregate", "posts")()

	out := &models.PostPerformance{PostID: postID, Tags: []string{}}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return models.NewInternalError(err)
		}
		out.Content = post.Content
		out.Status = post.Status

		var analysis models.Analysis
		err := tx.Where("post_id = ?", postID).First(&analysis).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No analysis yet; the score fields stay nil.
		case err != nil:
			return models.NewInternalError(err)
		default:
			out.Sentiment = &analysis.Sentiment
			out.Engagement = &analysis.Engagement
			out.Readability = analysis.Readability
			out.Suggestions = analysis.Suggestions
			out.Keywords = analysis.Keywords
		}

		var names []string
		err = tx.Model(&models.Tag{}).
			Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
			Where("post_tags.post_id = ?", postID).
			Order("tags.name").
			Pluck("tags.name", &names).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		if names != nil {
			out.Tags = names
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
