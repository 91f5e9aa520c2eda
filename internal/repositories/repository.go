package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates the per-domain repository interfaces.
type Repository interface {
	// Question pool (read-only here)
	Question() QuestionRepository
	Course() CourseRepository

	// Attempt domain
	Attempt() AttemptRepository
	Leaderboard() LeaderboardRepository

	// User domain (read-only for the quiz service)
	User() UserRepository

	// WithTransaction runs fn inside a single database transaction. The tx
	// handed to fn must be passed down to repository calls that should join
	// the transaction.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
