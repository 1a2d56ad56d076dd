package repository

import (
	"context"
	"errors"

	"cadence/internal/cache"
	"cadence/internal/models"
	"cadence/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	UpdateStatus(ctx context.Context, id uint, status models.UserStatus) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()

	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateKeyError("User", "username or email")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// UpdateStatus mutates the account lifecycle state. Status management
// decisions belong to the account-management collaborator; this only
// persists them.
func (r *userRepository) UpdateStatus(ctx context.Context, id uint, status models.UserStatus) error {
	if !models.ValidUserStatus(status) {
		return models.NewValidationError("unknown user status " + string(status))
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

// Delete removes the user and cascades over every post they own. Each post
// removal runs the same deletion hook as a direct post delete, so each one
// emits its own audit entry within the single transaction.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "users")()

	var postIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}

		var posts []models.Post
		if err := tx.Where("user_id = ?", id).Find(&posts).Error; err != nil {
			return models.NewInternalError(err)
		}
		for i := range posts {
			if err := deletePostTx(tx, &posts[i]); err != nil {
				return err
			}
			postIDs = append(postIDs, posts[i].ID)
		}

		if err := tx.Delete(&user).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	observability.CascadeDeletes.WithLabelValues(models.AuditEntityUser).Inc()
	for _, postID := range postIDs {
		observability.AuditEntriesEmitted.WithLabelValues(models.AuditEntityPost).Inc()
		cache.InvalidatePost(ctx, postID)
	}
	cache.InvalidateUserAnalytics(ctx, id)
	return nil
}
