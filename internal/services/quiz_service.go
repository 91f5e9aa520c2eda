package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"gorm.io/gorm"

	"github.com/coursebank/quiz-service/internal/repositories"
	"github.com/coursebank/quiz-service/internal/validator"
)

// DefaultQuizSize is used when no sample size is configured.
const DefaultQuizSize = 20

type quizService struct {
	repo       repositories.Repository
	db         *gorm.DB
	logger     *slog.Logger
	validator  *validator.Validator
	sampleSize int
}

func NewQuizService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, sampleSize int) QuizService {
	if sampleSize <= 0 {
		sampleSize = DefaultQuizSize
	}
	return &quizService{
		repo:       repo,
		db:         db,
		logger:     logger,
		validator:  validator,
		sampleSize: sampleSize,
	}
}

func (s *quizService) GetQuizSet(ctx context.Context, courseID uint) ([]QuizQuestion, error) {
	exists, err := s.repo.Course().ExistsByID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course existence: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	questions, err := s.repo.Question().GetRandomByCourse(ctx, nil, courseID, s.sampleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}

	// An empty pool is a valid result, not an error.
	quizSet := make([]QuizQuestion, 0, len(questions))
	for _, q := range questions {
		// Answer keys never leave the service here.
		quizSet = append(quizSet, QuizQuestion{
			QuestionID: q.ID,
			Prompt:     q.Prompt,
			OptionA:    q.OptionA,
			OptionB:    q.OptionB,
			OptionC:    q.OptionC,
			OptionD:    q.OptionD,
		})
	}

	s.logger.Info("Quiz set issued", "course_id", courseID, "question_count", len(quizSet))
	return quizSet, nil
}

func (s *quizService) GetCourseStats(ctx context.Context, courseID uint) (*CourseStatsResponse, error) {
	exists, err := s.repo.Course().ExistsByID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course existence: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	questionCount, err := s.repo.Question().CountByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count course questions: %w", err)
	}

	stats, err := s.repo.Leaderboard().GetCourseStats(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course attempt stats: %w", err)
	}

	return &CourseStatsResponse{
		CourseID:          courseID,
		QuestionCount:     questionCount,
		TotalAttempts:     stats.TotalAttempts,
		DistinctStudents:  stats.DistinctStudents,
		AveragePercentage: math.Round(stats.AveragePercentage*10) / 10,
	}, nil
}
