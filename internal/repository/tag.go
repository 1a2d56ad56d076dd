package repository

import (
	"context"
	"errors"

	"cadence/internal/cache"
	"cadence/internal/models"
	"cadence/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository manages tags and the post<->tag association set.
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	List(ctx context.Context, limit, offset int) ([]models.Tag, error)
	Delete(ctx context.Context, id uint) error
	Attach(ctx context.Context, postID, tagID uint) error
	Detach(ctx context.Context, postID, tagID uint) error
	ListTagsForPost(ctx context.Context, postID uint) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	defer observability.TrackQuery("create", "tags")()

	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateKeyError("Tag", "name")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Tag", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &tag, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &tag, nil
}

func (r *tagRepository) List(ctx context.Context, limit, offset int) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name").Limit(limit).Offset(offset).Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

// Delete removes the tag and all of its association rows in one transaction.
func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "tags")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Tag", id)
			}
			return models.NewInternalError(err)
		}
		if err := tx.Where("tag_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&tag).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	observability.CascadeDeletes.WithLabelValues("tag").Inc()
	return nil
}

// Attach links a tag to a post. Attaching an already-attached tag is a
// no-op: the conflict clause makes the insert idempotent under races, so no
// duplicate association rows can exist.
func (r *tagRepository) Attach(ctx context.Context, postID, tagID uint) error {
	defer observability.TrackQuery("attach", "post_tags")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.checkAssociationTargets(tx, postID, tagID); err != nil {
			return err
		}
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostTag{PostID: postID, TagID: tagID}).Error
		if err != nil {
			return translateWriteError(err, "PostTag", "post_id, tag_id")
		}
		return nil
	})
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

// Detach unlinks a tag from a post. Detaching an absent association
// succeeds silently.
func (r *tagRepository) Detach(ctx context.Context, postID, tagID uint) error {
	defer observability.TrackQuery("detach", "post_tags")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.checkAssociationTargets(tx, postID, tagID); err != nil {
			return err
		}
		err := tx.Where("post_id = ? AND tag_id = ?", postID, tagID).
			Delete(&models.PostTag{}).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

func (r *tagRepository) ListTagsForPost(ctx context.Context, postID uint) ([]models.Tag, error) {
	defer observability.TrackQuery("list", "post_tags")()

	var tags []models.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewNotFoundError("Post", postID)
		}
		return tx.
			Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
			Where("post_tags.post_id = ?", postID).
			Order("tags.name").
			Find(&tags).Error
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// checkAssociationTargets validates that both sides of the association exist.
func (r *tagRepository) checkAssociationTargets(tx *gorm.DB, postID, tagID uint) error {
	var count int64
	if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("Post", postID)
	}
	if err := tx.Model(&models.Tag{}).Where("id = ?", tagID).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("Tag", tagID)
	}
	return nil
}
