package repository

import (
	"context"
	"errors"

	"cadence/internal/cache"
	"cadence/internal/models"
	"cadence/internal/observability"

	"gorm.io/gorm"
)

// veryNegativeSentiment is the threshold below which an upsert leaves an
// audit trail entry for the resulting analysis row.
const veryNegativeSentiment = -0.80

// UpsertAnalysisInput carries the fields of a single upsert. Sentiment,
// Engagement and Suggestions are always written; Readability and Keywords are
// written only when non-nil, so a partial update preserves the stored values.
type UpsertAnalysisInput struct {
	PostID      uint
	Sentiment   float64
	Engagement  float64
	Suggestions string
	Readability *float64
	Keywords    *string
}

// AnalysisRepository implements the one-row-per-post upsert contract.
type AnalysisRepository interface {
	Upsert(ctx context.Context, in UpsertAnalysisInput) (*models.Analysis, bool, error)
	GetByPostID(ctx context.Context, postID uint) (*models.Analysis, error)
}

type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository returns a new AnalysisRepository implementation.
func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

// Upsert creates the analysis row for the post or updates the existing one.
// The bool result reports whether a new row was created. A concurrent insert
// losing the race on the post_id unique index surfaces as a Conflict error,
// which callers retry.
func (r *analysisRepository) Upsert(ctx context.Context, in UpsertAnalysisInput) (*models.Analysis, bool, error) {
	defer observability.TrackQuery("upsert", "analysis")()

	var (
		result  models.Analysis
		created bool
		userID  uint
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "user_id").First(&post, in.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", in.PostID)
			}
			return models.NewInternalError(err)
		}
		userID = post.UserID

		var existing models.Analysis
		err := tx.Where("post_id = ?", in.PostID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			result = models.Analysis{
				PostID:      in.PostID,
				Sentiment:   in.Sentiment,
				Engagement:  in.Engagement,
				Suggestions: in.Suggestions,
				Readability: in.Readability,
			}
			if in.Keywords != nil {
				result.Keywords = *in.Keywords
			}
			if err := tx.Create(&result).Error; err != nil {
				if isUniqueConstraintError(err) {
					// Another writer created the row between our read and
					// this insert. Surface as retryable.
					return models.NewConflictError("concurrent analysis upsert for post", err)
				}
				return translateWriteError(err, "Analysis", "post_id")
			}
		case err != nil:
			return models.NewInternalError(err)
		default:
			updates := map[string]interface{}{
				"sentiment":   in.Sentiment,
				"engagement":  in.Engagement,
				"suggestions": in.Suggestions,
			}
			if in.Readability != nil {
				updates["readability"] = *in.Readability
			}
			if in.Keywords != nil {
				updates["keywords"] = *in.Keywords
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return translateWriteError(err, "Analysis", "post_id")
			}
			if err := tx.Where("post_id = ?", in.PostID).First(&result).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		if result.Sentiment < veryNegativeSentiment {
			if err := recordAudit(tx, models.AuditEntityAnalysis, result.ID, models.AuditMsgNegativeSentiment); err != nil {
				return models.NewInternalError(err)
			}
		}
		return nil
	})
	if err != nil {
		if models.IsCode(err, models.CodeConflict) {
			observability.UpsertConflicts.Inc()
		}
		observability.AnalysisUpserts.WithLabelValues("error").Inc()
		return nil, false, err
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	observability.AnalysisUpserts.WithLabelValues(outcome).Inc()
	if result.Sentiment < veryNegativeSentiment {
		observability.AuditEntriesEmitted.WithLabelValues(models.AuditEntityAnalysis).Inc()
	}
	cache.InvalidatePost(ctx, in.PostID)
	cache.InvalidateUserAnalytics(ctx, userID)
	return &result, created, nil
}

func (r *analysisRepository) GetByPostID(ctx context.Context, postID uint) (*models.Analysis, error) {
	defer observability.TrackQuery("get", "analysis")()

	var analysis models.Analysis
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Analysis for post", postID)
		}
		return nil, models.NewInternalError(err)
	}
	return &analysis, nil
}
