package models

import "time"

// Audited entity kinds.
const (
	AuditEntityPost     = "post"
	AuditEntityAnalysis = "analysis"
	AuditEntityUser     = "user"
)

// Messages emitted by the reaction hooks.
const (
	AuditMsgPostDeleted       = "Post deleted"
	AuditMsgNegativeSentiment = "Very negative sentiment detected"
)

// AuditEntry is an append-only record of a notable data event. Entries are
// written inside the transaction of the mutation that triggered them and are
// never updated or deleted afterwards.
type AuditEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EntityType string    `gorm:"type:varchar(32);not null;index:idx_error_logs_entity" json:"entity_type"`
	EntityID   uint      `gorm:"not null;index:idx_error_logs_entity" json:"entity_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Trace      string    `gorm:"type:text" json:"trace,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName keeps the table name of the original schema.
func (AuditEntry) TableName() string {
	return "error_logs"
}
