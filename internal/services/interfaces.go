package services

import (
	"context"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/coursebank/quiz-service/internal/models"
	"github.com/coursebank/quiz-service/internal/repositories"
	"github.com/coursebank/quiz-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use boundary validator types
type SubmitQuizRequest = validator.SubmitQuizRequest
type AnswerSubmission = validator.AnswerSubmission

// QuizQuestion is a pool item as presented to a student: prompt and options
// only, never the answer key.
type QuizQuestion struct {
	QuestionID uint   `json:"question_id"`
	Prompt     string `json:"prompt"`
	OptionA    string `json:"option_a"`
	OptionB    string `json:"option_b"`
	OptionC    string `json:"option_c"`
	OptionD    string `json:"option_d"`
}

// SubmitQuizResponse is the graded outcome of one submission.
// PreviousScore and Difference are nil on the first attempt for a
// (student, course) pair; a prior score of 0 still arrives as a non-nil 0.
type SubmitQuizResponse struct {
	Score         int             `json:"score"`
	Total         int             `json:"total"`
	Percentage    int             `json:"percentage"`
	Tier          PerformanceTier `json:"tier"`
	Message       string          `json:"message"`
	AttemptNumber int             `json:"attempt_number"`
	PreviousScore *int            `json:"previous_score"`
	Difference    *int            `json:"difference"`
}

// CourseStatsResponse summarizes one course: how big its question pool is
// and how it has been attempted so far.
type CourseStatsResponse struct {
	CourseID          uint    `json:"course_id"`
	QuestionCount     int64   `json:"question_count"`
	TotalAttempts     int64   `json:"total_attempts"`
	DistinctStudents  int64   `json:"distinct_students"`
	AveragePercentage float64 `json:"average_percentage"`
}

// AttemptSequence is the sequencing outcome for a new attempt: its number
// and the delta against the previous attempt, if one exists.
type AttemptSequence struct {
	AttemptNumber int
	PreviousScore *int
	Difference    *int
}

// LeaderboardEntry is one ranked row of the global leaderboard. Derived on
// demand, never persisted.
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	StudentID      string  `json:"student_id"`
	StudentName    string  `json:"student_name"`
	MeanPercentage float64 `json:"mean_percentage"`
	AttemptCount   int     `json:"attempt_count"`
}

// AttemptHistoryResponse lists a student's attempts, newest first.
type AttemptHistoryResponse struct {
	Attempts []*models.QuizAttempt `json:"attempts"`
	Total    int64                 `json:"total"`
}

// ===== SERVICE INTERFACES =====

// QuizService issues quiz sets (the sampler side of the engine).
type QuizService interface {
	// GetQuizSet draws up to the configured sample size of a course's pool,
	// randomized, without the answer keys. An empty pool yields an empty
	// slice and no error.
	GetQuizSet(ctx context.Context, courseID uint) ([]QuizQuestion, error)

	// GetCourseStats reports the course's pool size and attempt aggregates.
	GetCourseStats(ctx context.Context, courseID uint) (*CourseStatsResponse, error)
}

// GradingService grades submissions and persists the resulting attempts.
type GradingService interface {
	// SubmitQuiz grades exactly the submitted question IDs against the
	// authoritative pool, sequences the attempt, persists it and returns
	// the composed result. Fails with ErrNoGradableQuestions when no
	// submitted ID resolves anymore.
	SubmitQuiz(ctx context.Context, req *SubmitQuizRequest, studentID string) (*SubmitQuizResponse, error)
}

// AttemptService owns attempt sequencing and history reads.
type AttemptService interface {
	// NextSequence computes the next attempt number and the delta against
	// the latest persisted attempt for the pair. Callers that are about to
	// write the attempt must invoke this inside the same transaction.
	NextSequence(ctx context.Context, tx *gorm.DB, studentID string, courseID uint, newScore int) (*AttemptSequence, error)

	// GetHistory returns a student's attempts newest first, optionally
	// narrowed to one course.
	GetHistory(ctx context.Context, studentID string, courseID *uint, filters repositories.AttemptFilters) (*AttemptHistoryResponse, error)

	GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error)
}

// LeaderboardService computes the cross-student ranking on demand.
type LeaderboardService interface {
	// GetLeaderboard scans the full attempt history, drops students with
	// fewer than MinAttempts attempts, and ranks the rest by mean
	// percentage descending.
	GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}

// ExportService renders leaderboard and history views as spreadsheets.
type ExportService interface {
	ExportLeaderboard(ctx context.Context) (*excelize.File, error)
	ExportAttemptHistory(ctx context.Context, studentID string, courseID *uint) (*excelize.File, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Quiz() QuizService
	Grading() GradingService
	Attempt() AttemptService
	Leaderboard() LeaderboardService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
