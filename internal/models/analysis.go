package models

import "time"

// Score bounds enforced before persistence. Values are stored with two
// fractional digits; anything outside the bounds is rejected, never clamped.
const (
	SentimentMin  = -1.00
	SentimentMax  = 1.00
	EngagementMin = 0.00
	EngagementMax = 100.00
)

// Analysis holds the derived scores for a single post. At most one row per
// post, enforced by the unique index on PostID and by the upsert transaction.
type Analysis struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	PostID      uint     `gorm:"uniqueIndex;not null" json:"post_id"`
	Sentiment   float64  `gorm:"type:numeric(3,2);not null" json:"sentiment"`
	Engagement  float64  `gorm:"type:numeric(5,2);not null" json:"engagement"`
	Readability *float64 `gorm:"type:numeric(5,2)" json:"readability,omitempty"`
	Suggestions string   `gorm:"type:text" json:"suggestions"`
	Keywords    string   `gorm:"type:text" json:"keywords"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName keeps the singular table name of the original schema.
func (Analysis) TableName() string {
	return "analysis"
}
