package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/coursebank/quiz-service/internal/models"
	"github.com/coursebank/quiz-service/internal/repositories"
	"github.com/coursebank/quiz-service/internal/validator"
)

type attemptService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAttemptService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) AttemptService {
	return &attemptService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== SEQUENCING =====

func (s *attemptService) NextSequence(ctx context.Context, tx *gorm.DB, studentID string, courseID uint, newScore int) (*AttemptSequence, error) {
	latest, err := s.repo.Attempt().GetLatest(ctx, tx, studentID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// First attempt for this pair: no previous score, no delta.
			return &AttemptSequence{AttemptNumber: 1}, nil
		}
		return nil, fmt.Errorf("failed to get latest attempt: %w", err)
	}

	prev := latest.Score
	diff := newScore - prev
	return &AttemptSequence{
		AttemptNumber: latest.AttemptNumber + 1,
		PreviousScore: &prev,
		Difference:    &diff,
	}, nil
}

// ===== HISTORY READS =====

func (s *attemptService) GetHistory(ctx context.Context, studentID string, courseID *uint, filters repositories.AttemptFilters) (*AttemptHistoryResponse, error) {
	if studentID == "" {
		return nil, NewValidationError("student_id", "student id is required", studentID)
	}

	filters.StudentID = &studentID
	filters.CourseID = courseID

	attempts, total, err := s.repo.Attempt().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	return &AttemptHistoryResponse{
		Attempts: attempts,
		Total:    total,
	}, nil
}

func (s *attemptService) GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	return attempt, nil
}
