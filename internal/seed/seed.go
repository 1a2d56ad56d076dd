// Package seed provides helpers to create demo data for development and
// testing. Analyses are written through the repository so the usual audit
// and consistency rules apply to seeded data too.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"cadence/internal/models"
	"cadence/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var tagNames = []string{
	"golang", "devops", "startups", "music", "fitness", "travel",
	"food", "gaming", "photography", "books", "ai", "climate",
}

// Seeder populates the database with fake users, posts, tags and analyses.
type Seeder struct {
	db           *gorm.DB
	analysisRepo repository.AnalysisRepository
	rng          *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:           db,
		analysisRepo: repository.NewAnalysisRepository(db),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data, children before parents.
func (s *Seeder) ClearAll() error {
	tables := []string{"error_logs", "post_tags", "analysis", "tags", "posts", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// Run seeds the requested number of users and posts, attaches random tags
// and analyzes roughly two thirds of the posts.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	tags, err := s.seedTags()
	if err != nil {
		return err
	}
	posts, err := s.seedPosts(users, tags, opts.NumPosts)
	if err != nil {
		return err
	}
	return s.seedAnalyses(ctx, posts)
}

func (s *Seeder) seedUsers(n int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			Username:     fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:        fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			PasswordHash: string(hash),
			Avatar:       fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
			Status:       models.UserStatusActive,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("seeding user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))
	return users, nil
}

func (s *Seeder) seedTags() ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tag := models.Tag{Name: name}
		if err := s.db.Create(&tag).Error; err != nil {
			return nil, fmt.Errorf("seeding tag %s: %w", name, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *Seeder) seedPosts(users []models.User, tags []models.Tag, n int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		owner := users[s.rng.Intn(len(users))]
		post := models.Post{
			UserID:  owner.ID,
			Content: gofakeit.Paragraph(1, 3, 8, " "),
			Status:  models.PostStatusPending,
			// realistic created_at spread over the last 90 days
			CreatedAt: time.Now().Add(-time.Duration(s.rng.Intn(90*24)) * time.Hour),
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, fmt.Errorf("seeding post: %w", err)
		}

		for _, tag := range pickTags(s.rng, tags) {
			pt := models.PostTag{PostID: post.ID, TagID: tag.ID}
			if err := s.db.Create(&pt).Error; err != nil {
				return nil, fmt.Errorf("attaching tag: %w", err)
			}
		}
		posts = append(posts, post)
	}
	log.Printf("Seeded %d posts", len(posts))
	return posts, nil
}

func (s *Seeder) seedAnalyses(ctx context.Context, posts []models.Post) error {
	analyzed := 0
	for i := range posts {
		if s.rng.Intn(3) == 0 {
			continue
		}
		readability := float64(s.rng.Intn(101))
		_, _, err := s.analysisRepo.Upsert(ctx, repository.UpsertAnalysisInput{
			PostID:      posts[i].ID,
			Sentiment:   float64(s.rng.Intn(201)-100) / 100,
			Engagement:  float64(s.rng.Intn(10001)) / 100,
			Suggestions: gofakeit.Sentence(8),
			Readability: &readability,
		})
		if err != nil {
			return fmt.Errorf("seeding analysis: %w", err)
		}

		status := models.PostStatusCompleted
		if err := s.db.Model(&models.Post{}).Where("id = ?", posts[i].ID).Update("status", status).Error; err != nil {
			return err
		}
		analyzed++
	}
	log.Printf("Seeded %d analyses", analyzed)
	return nil
}

func pickTags(rng *rand.Rand, tags []models.Tag) []models.Tag {
	if len(tags) == 0 {
		return nil
	}
	count := rng.Intn(3)
	picked := make([]models.Tag, 0, count)
	seen := map[uint]bool{}
	for len(picked) < count {
		tag := tags[rng.Intn(len(tags))]
		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true
		picked = append(picked, tag)
	}
	return picked
}
