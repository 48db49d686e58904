package db

import (
	"time"
)

// User table
//
// Username and Email are stored lowercased. PasswordHash is a bcrypt hash and
// never leaves the service.
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"uniqueIndex;size:64;not null"`
	Email        string    `gorm:"uniqueIndex;size:128;not null"`
	FullName     string    `gorm:"size:128;not null;index"`
	Branch       string    `gorm:"size:64;not null"`
	Year         string    `gorm:"size:16;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Submission is a user's one-time preference triple.
//
// Unique index ux_submissions_submitter guarantees at most one row per
// submitter; inserts rely on it instead of a read-then-write check.
//
// Indexes on crush_id, like_id and adore_id keep a reverse lookup
// ("who listed user X") to a single indexed query.
//
// Fields:
//   - SubmitterID: The user who submitted.
//   - CrushID, LikeID, AdoreID: Target user ids, one per category.
//   - CreatedAt: Audit only; reveal timing is global.
type Submission struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	SubmitterID uint64    `gorm:"not null;uniqueIndex:ux_submissions_submitter"`
	CrushID     uint64    `gorm:"not null;index:idx_submissions_crush"`
	LikeID      uint64    `gorm:"not null;index:idx_submissions_like"`
	AdoreID     uint64    `gorm:"not null;index:idx_submissions_adore"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// Feedback categories accepted from the client.
const (
	FeedbackSuggestion  = "Suggestion"
	FeedbackComplaint   = "Complaint"
	FeedbackBugReport   = "Bug Report"
	FeedbackAbuseReport = "Abuse Report"
	FeedbackOther       = "Other"
)

// FeedbackCategories lists the accepted categories in display order.
var FeedbackCategories = []string{
	FeedbackSuggestion,
	FeedbackComplaint,
	FeedbackBugReport,
	FeedbackAbuseReport,
	FeedbackOther,
}

const FeedbackStatusPending = "pending"

// Feedback is a free-form message a user sends to the organisers.
type Feedback struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;index"`
	Category  string    `gorm:"size:32;not null"`
	Message   string    `gorm:"type:text;not null"`
	Status    string    `gorm:"size:16;not null;default:pending"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName implements the GORM tabler interface.
func (Feedback) TableName() string { return "feedback" }

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{&User{}, &Submission{}, &Feedback{}}
}
