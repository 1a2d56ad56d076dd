package repository

import (
	"context"
	"fmt"

	"cadence/internal/models"
	"cadence/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditRepository is the read side of the audit log. Writes happen only
// through recordAudit inside mutation transactions, so an entry is never
// visible without its triggering mutation.
type AuditRepository interface {
	List(ctx context.Context, entityType string, entityID uint) ([]models.AuditEntry, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository returns a new AuditRepository implementation.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// List returns audit entries ordered newest first. Zero-valued filters are
// ignored: List(ctx, "", 0) returns everything.
func (r *auditRepository) List(ctx context.Context, entityType string, entityID uint) ([]models.AuditEntry, error) {
	defer observability.TrackQuery("list", "error_logs")()

	q := r.db.WithContext(ctx).Model(&models.AuditEntry{})
	if entityType != "" {
		q = q.Where("entity_type = ?", entityType)
	}
	if entityID != 0 {
		q = q.Where("entity_id = ?", entityID)
	}

	var entries []models.AuditEntry
	if err := q.Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

// recordAudit appends an entry within the caller's transaction. The entry
// commits or rolls back with the mutation that triggered it, which is what
// gives exactly-once emission.
func recordAudit(tx *gorm.DB, entityType string, entityID uint, message string) error {
	entry := &models.AuditEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Message:    message,
		Trace:      fmt.Sprintf("event=%s", uuid.NewString()),
	}
	return tx.Create(entry).Error
}
