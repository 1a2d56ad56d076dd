package service

import (
	"context"
	"testing"

	"cadence/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	listFn          func(context.Context, int, int) ([]models.User, error)
	updateStatusFn  func(context.Context, uint, models.UserStatus) error
	deleteFn        func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) UpdateStatus(ctx context.Context, id uint, status models.UserStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		updateStatusFn:  func(_ context.Context, _ uint, _ models.UserStatus) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

func TestUserService_Register(t *testing.T) {
	repo := noopUserRepo()
	var created *models.User
	repo.createFn = func(_ context.Context, u *models.User) error {
		created = u
		return nil
	}
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "  dana  ",
		Email:    "Dana@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "dana", user.Username)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, models.UserStatusActive, user.Status)
	// stored as a bcrypt hash, never the plaintext
	assert.NotEqual(t, "correct-horse", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct-horse")))
}

func TestUserService_Register_Validation(t *testing.T) {
	svc := NewUserService(noopUserRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"short username", RegisterInput{Username: "ab", Email: "a@b.com", Password: "longenough"}},
		{"bad email", RegisterInput{Username: "valid", Email: "nope", Password: "longenough"}},
		{"short password", RegisterInput{Username: "valid", Email: "a@b.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, models.IsCode(err, models.CodeValidation))
		})
	}
}

func TestUserService_Register_DuplicatePropagates(t *testing.T) {
	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, _ *models.User) error {
		return models.NewDuplicateKeyError("User", "username or email")
	}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "taken", Email: "taken@example.com", Password: "longenough",
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeDuplicateKey))
}

func TestUserService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sesame-open"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := noopUserRepo()
	repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username != "ali" {
			return nil, nil
		}
		return &models.User{Username: "ali", PasswordHash: string(hash), Status: models.UserStatusActive}, nil
	}
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "ali", "sesame-open")
	require.NoError(t, err)
	assert.Equal(t, "ali", user.Username)

	_, err = svc.Authenticate(ctx, "ali", "wrong")
	assert.True(t, models.IsCode(err, models.CodeValidation))

	_, err = svc.Authenticate(ctx, "ghost", "sesame-open")
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestUserService_Authenticate_SuspendedRejected(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw-enough"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := noopUserRepo()
	repo.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{PasswordHash: string(hash), Status: models.UserStatusSuspended}, nil
	}
	svc := NewUserService(repo)

	_, err = svc.Authenticate(context.Background(), "banned", "pw-enough")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}
