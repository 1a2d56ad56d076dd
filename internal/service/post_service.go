package service

import (
	"context"
	"strings"

	"cadence/internal/middleware"
	"cadence/internal/models"
	"cadence/internal/repository"
	"cadence/internal/scoring"
)

const maxContentLength = 10000

// analysisUpserter is the slice of AnalysisService the post flow needs.
type analysisUpserter interface {
	Upsert(ctx context.Context, in repository.UpsertAnalysisInput) (*models.Analysis, bool, error)
}

type PostService struct {
	postRepo repository.PostRepository
	analyses analysisUpserter
	scorer   scoring.Scorer
}

type CreatePostInput struct {
	UserID   uint
	Content  string
	FilePath string
	FileType string
	FileSize int64
}

func NewPostService(postRepo repository.PostRepository, analyses analysisUpserter, scorer scoring.Scorer) *PostService {
	return &PostService{
		postRepo: postRepo,
		analyses: analyses,
		scorer:   scorer,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && in.FilePath == "" {
		return nil, models.NewValidationError("Post content is required")
	}
	if len(content) > maxContentLength {
		return nil, models.NewValidationError("Post content is too long")
	}

	post := &models.Post{
		UserID:   in.UserID,
		Content:  content,
		FilePath: in.FilePath,
		FileType: in.FileType,
		FileSize: in.FileSize,
		Status:   models.PostStatusPending,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset)
}

func (s *PostService) ListPostsByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset)
}

func (s *PostService) UpdateStatus(ctx context.Context, id uint, status models.PostStatus) error {
	return s.postRepo.UpdateStatus(ctx, id, status)
}

func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	return s.postRepo.Delete(ctx, id)
}

// AnalyzePost runs the scoring pipeline for one post: claim it by moving it
// to processing, score the content, persist the analysis and mark the post
// completed. Scoring or persistence failures move the post to failed, which
// keeps it eligible for re-queueing.
func (s *PostService) AnalyzePost(ctx context.Context, id uint) (*models.Analysis, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.UpdateStatus(ctx, id, models.PostStatusProcessing); err != nil {
		return nil, err
	}

	scores, err := s.scorer.Score(ctx, post.Content)
	if err != nil {
		s.markFailed(ctx, id)
		return nil, models.NewInternalError(err)
	}

	analysis, _, err := s.analyses.Upsert(ctx, repository.UpsertAnalysisInput{
		PostID:      id,
		Sentiment:   scores.Sentiment,
		Engagement:  scores.Engagement,
		Suggestions: scores.Suggestions,
		Readability: &scores.Readability,
		Keywords:    &scores.Keywords,
	})
	if err != nil {
		s.markFailed(ctx, id)
		return nil, err
	}

	if err := s.postRepo.UpdateStatus(ctx, id, models.PostStatusCompleted); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (s *PostService) markFailed(ctx context.Context, id uint) {
	if err := s.postRepo.UpdateStatus(ctx, id, models.PostStatusFailed); err != nil {
		middleware.Logger.WarnContext(ctx, "Failed to mark post as failed",
			"post_id", id, "error", err.Error())
	}
}
