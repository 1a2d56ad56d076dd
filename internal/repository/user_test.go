package repository

import (
	"context"
	"testing"

	"cadence/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)
	assert.Equal(t, models.UserStatusActive, user.Status)

	dup := &models.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"}
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeDuplicateKey))
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestUserRepository_GetByUsername_Absent(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "bob")

	require.NoError(t, repo.UpdateStatus(ctx, user.ID, models.UserStatusSuspended))
	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusSuspended, got.Status)

	err = repo.UpdateStatus(ctx, user.ID, models.UserStatus("banned"))
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))

	err = repo.UpdateStatus(ctx, 999, models.UserStatusActive)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestUserRepository_Delete_CascadesOverPosts(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "carol")
	p1 := seedPost(t, db, user.ID, "first")
	p2 := seedPost(t, db, user.ID, "second")
	seedAnalysis(t, db, p1.ID, 0.5, 40)
	tag := seedTag(t, db, "golang")
	require.NoError(t, db.Create(&models.PostTag{PostID: p2.ID, TagID: tag.ID}).Error)

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.GetByID(ctx, user.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.Zero(t, countRows(t, db, &models.Post{}, "user_id = ?", user.ID))
	assert.Zero(t, countRows(t, db, &models.Analysis{}, "post_id = ?", p1.ID))
	assert.Zero(t, countRows(t, db, &models.PostTag{}, "post_id = ?", p2.ID))
	// the tag itself survives, only the association is removed
	assert.EqualValues(t, 1, countRows(t, db, &models.Tag{}, ""))

	// one audit entry per deleted post, all in the same commit
	var entries []models.AuditEntry
	require.NoError(t, db.Where("entity_type = ?", models.AuditEntityPost).Find(&entries).Error)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, models.AuditMsgPostDeleted, e.Message)
	}
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	err := repo.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.Zero(t, countRows(t, db, &models.AuditEntry{}, ""))
}
