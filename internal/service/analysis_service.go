package service

import (
	"context"
	"math"
	"time"

	"cadence/internal/models"
	"cadence/internal/repository"

	"github.com/sethvargo/go-retry"
)

// AnalysisService validates and serializes score writes. Writes for the same
// post are funneled through a per-post lock, and the residual conflict window
// (two processes racing on the unique index) is absorbed by a bounded retry.
type AnalysisService struct {
	repo       repository.AnalysisRepository
	locks      *keyedMutex
	maxRetries uint64
}

// NewAnalysisService returns a service wrapping the given repository.
// maxRetries bounds how often a conflicting upsert is retried.
func NewAnalysisService(repo repository.AnalysisRepository, maxRetries int) *AnalysisService {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &AnalysisService{
		repo:       repo,
		locks:      newKeyedMutex(),
		maxRetries: uint64(maxRetries),
	}
}

// round2 truncates to the two fractional digits the schema stores, so the
// value returned to the caller equals the value read back later.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func validateScores(in repository.UpsertAnalysisInput) error {
	if in.Sentiment < models.SentimentMin || in.Sentiment > models.SentimentMax {
		return models.NewOutOfRangeError("sentiment", in.Sentiment, models.SentimentMin, models.SentimentMax)
	}
	if in.Engagement < models.EngagementMin || in.Engagement > models.EngagementMax {
		return models.NewOutOfRangeError("engagement", in.Engagement, models.EngagementMin, models.EngagementMax)
	}
	if in.Readability != nil && (*in.Readability < 0 || *in.Readability > 100) {
		return models.NewOutOfRangeError("readability", *in.Readability, 0, 100)
	}
	return nil
}

// Upsert validates ranges, rounds to storage precision and writes the
// analysis row for the post. The bool result reports whether the row was
// created rather than updated.
func (s *AnalysisService) Upsert(ctx context.Context, in repository.UpsertAnalysisInput) (*models.Analysis, bool, error) {
	if err := validateScores(in); err != nil {
		return nil, false, err
	}
	in.Sentiment = round2(in.Sentiment)
	in.Engagement = round2(in.Engagement)
	if in.Readability != nil {
		r := round2(*in.Readability)
		in.Readability = &r
	}

	unlock := s.locks.Lock(in.PostID)
	defer unlock()

	var (
		result  *models.Analysis
		created bool
	)
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(2*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		res, c, err := s.repo.Upsert(ctx, in)
		if err != nil {
			if models.IsCode(err, models.CodeConflict) {
				return retry.RetryableError(err)
			}
			return err
		}
		result, created = res, c
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

func (s *AnalysisService) GetByPostID(ctx context.Context, postID uint) (*models.Analysis, error) {
	return s.repo.GetByPostID(ctx, postID)
}
