package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/coursebank/quiz-service/internal/repositories"
	"github.com/coursebank/quiz-service/internal/validator"
)

type exportService struct {
	repo               repositories.Repository
	attemptService     AttemptService
	leaderboardService LeaderboardService
	db                 *gorm.DB
	logger             *slog.Logger
	validator          *validator.Validator
}

func NewExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ExportService {
	return &exportService{
		repo:               repo,
		attemptService:     NewAttemptService(repo, db, logger, validator),
		leaderboardService: NewLeaderboardService(repo, db, logger, validator),
		db:                 db,
		logger:             logger,
		validator:          validator,
	}
}

func (s *exportService) ExportLeaderboard(ctx context.Context) (*excelize.File, error) {
	entries, err := s.leaderboardService.GetLeaderboard(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Leaderboard"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to set sheet name: %w", err)
	}

	headers := []string{"Rank", "Student ID", "Student Name", "Mean Percentage", "Attempts"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, e := range entries {
		values := []interface{}{e.Rank, e.StudentID, e.StudentName, e.MeanPercentage, e.AttemptCount}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+1, err)
			}
		}
	}

	s.logger.Info("Leaderboard exported", "rows", len(entries))
	return f, nil
}

func (s *exportService) ExportAttemptHistory(ctx context.Context, studentID string, courseID *uint) (*excelize.File, error) {
	history, err := s.attemptService.GetHistory(ctx, studentID, courseID, repositories.AttemptFilters{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Attempts"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to set sheet name: %w", err)
	}

	headers := []string{"Attempt #", "Course ID", "Score", "Total", "Percentage", "Submitted At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, a := range history.Attempts {
		values := []interface{}{
			a.AttemptNumber, a.CourseID, a.Score, a.Total, a.Percentage,
			a.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+1, err)
			}
		}
	}

	s.logger.Info("Attempt history exported", "student_id", studentID, "rows", len(history.Attempts))
	return f, nil
}
