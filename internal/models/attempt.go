package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuizAttempt is one graded quiz submission for a (student, course) pair.
// Attempts are append-only: they are written exactly once at submission time
// and never updated or deleted in the normal flow.
type QuizAttempt struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_student_course_attempt"`
	CourseID  uint   `json:"course_id" gorm:"not null;index;uniqueIndex:idx_student_course_attempt"`

	// The exact question IDs graded in this attempt ([]uint as jsonb).
	QuestionIDs datatypes.JSON `json:"question_ids" gorm:"type:jsonb"`

	// Scoring. Percentage = round(100 * Score / Total); Total is always > 0
	// for a persisted attempt.
	Score      int `json:"score" gorm:"not null"`
	Total      int `json:"total" gorm:"not null"`
	Percentage int `json:"percentage" gorm:"not null"`

	// 1-based, monotonically increasing per (student, course). The unique
	// index on (student_id, course_id, attempt_number) is what serializes
	// concurrent submissions for the same pair.
	AttemptNumber int `json:"attempt_number" gorm:"not null;uniqueIndex:idx_student_course_attempt"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Course Course `json:"-" gorm:"foreignKey:CourseID"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
