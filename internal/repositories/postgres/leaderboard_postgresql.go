package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/coursebank/quiz-service/internal/models"
	"github.com/coursebank/quiz-service/internal/repositories"
)

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardPostgreSQL(db *gorm.DB) repositories.LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// GetStudentAggregates scans the whole attempt table in one grouped query.
// The averaging is global across courses; the minimum-participation filter
// and ranking belong to the service layer.
func (r *leaderboardRepository) GetStudentAggregates(ctx context.Context, tx *gorm.DB) ([]*repositories.StudentAggregate, error) {
	db := r.getDB(tx)
	var aggregates []*repositories.StudentAggregate

	if err := db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Select("student_id, AVG(percentage) AS mean_percentage, COUNT(*) AS attempt_count").
		Group("student_id").
		Scan(&aggregates).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate attempts by student: %w", err)
	}

	return aggregates, nil
}

func (r *leaderboardRepository) GetCourseStats(ctx context.Context, tx *gorm.DB, courseID uint) (*repositories.CourseAttemptStats, error) {
	db := r.getDB(tx)
	var stats repositories.CourseAttemptStats

	if err := db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Select("COUNT(*) AS total_attempts, COUNT(DISTINCT student_id) AS distinct_students, COALESCE(AVG(percentage), 0) AS average_percentage").
		Where("course_id = ?", courseID).
		Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to get course attempt stats: %w", err)
	}

	return &stats, nil
}
