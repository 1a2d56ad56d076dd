package repository

import (
	"context"
	"errors"

	"cadence/internal/cache"
	"cadence/internal/models"
	"cadence/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	UpdateStatus(ctx context.Context, id uint, next models.PostStatus) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", post.UserID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewNotFoundError("User", post.UserID)
		}
		if post.Status == "" {
			post.Status = models.PostStatusPending
		}
		if err := tx.Create(post).Error; err != nil {
			return translateWriteError(err, "Post", "id")
		}
		return nil
	})
	if err == nil {
		cache.InvalidateUserAnalytics(ctx, post.UserID)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("get", "posts")()

	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("Analysis").
		Preload("Tags").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Analysis").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Analysis").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// UpdateStatus advances the processing state machine. Invalid transitions
// are rejected with a validation error; the current state is re-read inside
// the transaction so concurrent transitions cannot skip a step.
func (r *postRepository) UpdateStatus(ctx context.Context, id uint, next models.PostStatus) error {
	defer observability.TrackQuery("update", "posts")()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		if !post.Status.CanTransition(next) {
			return models.NewValidationError(
				"invalid status transition from " + string(post.Status) + " to " + string(next))
		}
		if err := tx.Model(&post).Update("status", next).Error; err != nil {
			return translateWriteError(err, "Post", "status")
		}
		return nil
	})
}

// Delete removes the post and everything hanging off it: its analysis row,
// its tag associations, and finally the post itself, emitting the audit
// entry inside the same transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()

	var userID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		userID = post.UserID
		return deletePostTx(tx, &post)
	})
	if err != nil {
		return err
	}

	observability.CascadeDeletes.WithLabelValues(models.AuditEntityPost).Inc()
	observability.AuditEntriesEmitted.WithLabelValues(models.AuditEntityPost).Inc()
	cache.InvalidatePost(ctx, id)
	cache.InvalidateUserAnalytics(ctx, userID)
	return nil
}

// deletePostTx is the post-deletion hook shared by direct post deletion and
// the user-deletion cascade. Dependent rows that are already gone are not an
// error; the audit entry is always emitted for the post itself.
func deletePostTx(tx *gorm.DB, post *models.Post) error {
	if err := tx.Where("post_id = ?", post.ID).Delete(&models.Analysis{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostTag{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := recordAudit(tx, models.AuditEntityPost, post.ID, models.AuditMsgPostDeleted); err != nil {
		return models.NewInternalError(err)
	}
	if err := tx.Delete(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
