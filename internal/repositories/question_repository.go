package repositories

import (
	"context"

	"github.com/coursebank/quiz-service/internal/models"
	"gorm.io/gorm"
)

// QuestionRepository is a read-only view of the question pool. The pool is
// owned by the content-management service; this service only samples from it
// and grades against it.
type QuestionRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error)

	// GetByIDs returns the questions that currently exist among ids, scoped
	// to a course. IDs that no longer resolve are simply absent from the
	// result; callers decide what that means.
	GetByIDs(ctx context.Context, tx *gorm.DB, courseID uint, ids []uint) ([]*models.Question, error)

	// GetRandomByCourse draws up to count questions of the course uniformly
	// at random without replacement.
	GetRandomByCourse(ctx context.Context, tx *gorm.DB, courseID uint, count int) ([]*models.Question, error)

	List(ctx context.Context, tx *gorm.DB, filters QuestionFilters) ([]*models.Question, int64, error)
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error)
}

// CourseRepository is a read-only view of course metadata.
type CourseRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}
