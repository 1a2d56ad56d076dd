package repository

import (
	"errors"
	"testing"

	"cadence/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"postgres duplicate", errors.New(`duplicate key value violates unique constraint "idx_analysis_post_id" (SQLSTATE 23505)`), true},
		{"sqlite unique", errors.New("UNIQUE constraint failed: tags.name"), true},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isUniqueConstraintError(tt.err))
		})
	}
}

func TestIsSerializationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"serialization failure", errors.New("could not serialize access due to concurrent update (SQLSTATE 40001)"), true},
		{"deadlock", errors.New("deadlock detected (SQLSTATE 40P01)"), true},
		{"sqlite busy", errors.New("database is locked"), true},
		{"unrelated", errors.New("syntax error"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isSerializationError(tt.err))
		})
	}
}

func TestTranslateWriteError(t *testing.T) {
	assert.NoError(t, translateWriteError(nil, "Post", "id"))

	err := translateWriteError(errors.New("SQLSTATE 23505"), "Analysis", "post_id")
	assert.True(t, models.IsCode(err, models.CodeDuplicateKey))

	err = translateWriteError(errors.New("SQLSTATE 40001"), "Analysis", "post_id")
	assert.True(t, models.IsCode(err, models.CodeConflict))

	err = translateWriteError(errors.New("disk full"), "Analysis", "post_id")
	assert.True(t, models.IsCode(err, models.CodeInternal))
}
