package models

import (
	"time"

	"gorm.io/gorm"
)

// PostStatus is the processing state of a post.
type PostStatus string

const (
	PostStatusPending    PostStatus = "pending"
	PostStatusProcessing PostStatus = "processing"
	PostStatusCompleted  PostStatus = "completed"
	PostStatusFailed     PostStatus = "failed"
)

// CanTransition reports whether the status may move from s to next.
// The state machine is pending -> processing -> {completed, failed};
// failed posts may be re-queued for processing.
func (s PostStatus) CanTransition(next PostStatus) bool {
	switch s {
	case PostStatusPending:
		return next == PostStatusProcessing
	case PostStatusProcessing:
		return next == PostStatusCompleted || next == PostStatusFailed
	case PostStatusFailed:
		return next == PostStatusProcessing
	}
	return false
}

// Post represents user-submitted content. Ownership is exclusive and
// immutable: deleting the owning user cascades to all of their posts.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content string `gorm:"type:text" json:"content"`
	// Attached file metadata; empty for text-only posts. Upload handling
	// itself lives outside this service.
	FilePath string     `json:"file_path,omitempty"`
	FileType string     `json:"file_type,omitempty"`
	FileSize int64      `json:"file_size,omitempty"`
	Status   PostStatus `gorm:"type:varchar(16);not null;default:pending" json:"status"`
	// Analysis is the at-most-one derived score record for this post.
	Analysis  *Analysis      `gorm:"foreignKey:PostID" json:"analysis,omitempty"`
	Tags      []Tag          `gorm:"many2many:post_tags" json:"tags,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
