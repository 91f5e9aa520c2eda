package repositories

import (
	"context"

	"github.com/coursebank/quiz-service/internal/models"
	"gorm.io/gorm"
)

// AttemptRepository persists graded quiz attempts. The store is append-only:
// there is no update or delete in the normal flow, attempts are immutable
// once written.
type AttemptRepository interface {
	Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizAttempt, error)

	// GetLatest returns the most recent attempt for a (student, course) pair,
	// or a not-found error when the pair has no attempts yet.
	GetLatest(ctx context.Context, tx *gorm.DB, studentID string, courseID uint) (*models.QuizAttempt, error)

	// List returns attempts newest first.
	List(ctx context.Context, tx *gorm.DB, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)

	CountByStudent(ctx context.Context, tx *gorm.DB, studentID string) (int64, error)
}

// LeaderboardRepository computes cross-student aggregates over the full
// attempt history. Read-only; every call sees the store as of that moment.
type LeaderboardRepository interface {
	// GetStudentAggregates groups all attempts by student (all courses
	// combined) and returns each student's mean percentage and attempt count.
	// No minimum-participation filter is applied here.
	GetStudentAggregates(ctx context.Context, tx *gorm.DB) ([]*StudentAggregate, error)

	GetCourseStats(ctx context.Context, tx *gorm.DB, courseID uint) (*CourseAttemptStats, error)
}
