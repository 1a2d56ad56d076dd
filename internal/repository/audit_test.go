package repository

import (
	"context"
	"testing"

	"cadence/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	require.NoError(t, recordAudit(db, models.AuditEntityPost, 1, "Post deleted"))
	require.NoError(t, recordAudit(db, models.AuditEntityPost, 2, "Post deleted"))
	require.NoError(t, recordAudit(db, models.AuditEntityAnalysis, 7, "Very negative sentiment detected"))

	all, err := repo.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// newest first; entries created in the same instant fall back to id order
	assert.True(t, all[0].ID > all[1].ID)
	assert.True(t, all[1].ID > all[2].ID)

	posts, err := repo.List(ctx, models.AuditEntityPost, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	one, err := repo.List(ctx, models.AuditEntityPost, 2)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.EqualValues(t, 2, one[0].EntityID)

	none, err := repo.List(ctx, models.AuditEntityUser, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecordAudit_RollsBackWithTransaction(t *testing.T) {
	db := newTestDB(t)

	tx := db.Begin()
	require.NoError(t, recordAudit(tx, models.AuditEntityPost, 5, "Post deleted"))
	tx.Rollback()

	assert.Zero(t, countRows(t, db, &models.AuditEntry{}, ""))
}
