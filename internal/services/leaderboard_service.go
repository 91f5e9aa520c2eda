package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gorm.io/gorm"

	"github.com/coursebank/quiz-service/internal/repositories"
	"github.com/coursebank/quiz-service/internal/validator"
)

// MinLeaderboardAttempts is the participation floor: students below it are
// absent from the leaderboard entirely, not zero-filled.
const MinLeaderboardAttempts = 3

type leaderboardService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewLeaderboardService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) LeaderboardService {
	return &leaderboardService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	aggregates, err := s.repo.Leaderboard().GetStudentAggregates(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attempts: %w", err)
	}

	qualified := make([]*repositories.StudentAggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.AttemptCount >= MinLeaderboardAttempts {
			qualified = append(qualified, agg)
		}
	}

	// Ties are not ranked equal: equal means get consecutive ranks in the
	// order the stable sort leaves them.
	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].MeanPercentage > qualified[j].MeanPercentage
	})

	names := s.resolveNames(ctx, qualified)

	entries := make([]LeaderboardEntry, 0, len(qualified))
	for i, agg := range qualified {
		entries = append(entries, LeaderboardEntry{
			Rank:           i + 1,
			StudentID:      agg.StudentID,
			StudentName:    names[agg.StudentID],
			MeanPercentage: math.Round(agg.MeanPercentage*10) / 10,
			AttemptCount:   agg.AttemptCount,
		})
	}

	s.logger.Info("Leaderboard computed", "students", len(entries), "scanned", len(aggregates))
	return entries, nil
}

// resolveNames looks up display names from the identity directory. A lookup
// failure degrades to empty names rather than failing the leaderboard.
func (s *leaderboardService) resolveNames(ctx context.Context, aggregates []*repositories.StudentAggregate) map[string]string {
	names := make(map[string]string, len(aggregates))
	if len(aggregates) == 0 {
		return names
	}

	ids := make([]string, 0, len(aggregates))
	for _, agg := range aggregates {
		ids = append(ids, agg.StudentID)
	}

	users, err := s.repo.User().GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to resolve student names", "error", err)
		return names
	}
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names
}
