package service

import (
	"context"
	"strings"

	"cadence/internal/models"
	"cadence/internal/repository"
)

const maxTagLength = 64

type TagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// normalizeTagName lowercases and trims so "GoLang" and "golang" are the
// same tag at the unique index.
func normalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *TagService) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	name = normalizeTagName(name)
	if name == "" {
		return nil, models.NewValidationError("Tag name is required")
	}
	if len(name) > maxTagLength {
		return nil, models.NewValidationError("Tag name is too long")
	}

	tag := &models.Tag{Name: name}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// GetOrCreateTag resolves a name to a tag, creating it on first use. A
// concurrent creator winning the race is treated as success.
func (s *TagService) GetOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	name = normalizeTagName(name)
	if name == "" {
		return nil, models.NewValidationError("Tag name is required")
	}

	existing, err := s.tagRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	tag := &models.Tag{Name: name}
	err = s.tagRepo.Create(ctx, tag)
	if models.IsCode(err, models.CodeDuplicateKey) {
		return s.tagRepo.GetByName(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) ListTags(ctx context.Context, limit, offset int) ([]models.Tag, error) {
	return s.tagRepo.List(ctx, limit, offset)
}

func (s *TagService) DeleteTag(ctx context.Context, id uint) error {
	return s.tagRepo.Delete(ctx, id)
}

func (s *TagService) AttachTag(ctx context.Context, postID, tagID uint) error {
	return s.tagRepo.Attach(ctx, postID, tagID)
}

func (s *TagService) DetachTag(ctx context.Context, postID, tagID uint) error {
	return s.tagRepo.Detach(ctx, postID, tagID)
}

func (s *TagService) ListTagsForPost(ctx context.Context, postID uint) ([]models.Tag, error) {
	return s.tagRepo.ListTagsForPost(ctx, postID)
}
