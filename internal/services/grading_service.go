package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"gorm.io/gorm"

	"github.com/coursebank/quiz-service/internal/events"
	"github.com/coursebank/quiz-service/internal/models"
	"github.com/coursebank/quiz-service/internal/repositories"
	"github.com/coursebank/quiz-service/internal/validator"
)

// sequenceRetries bounds the retry loop around the unique index on
// (student_id, course_id, attempt_number). Two concurrent submissions for
// the same pair can compute the same next number; the loser of the insert
// race re-reads and tries again.
const sequenceRetries = 3

type gradingService struct {
	repo           repositories.Repository
	attemptService AttemptService
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	publisher      events.EventPublisher
}

func NewGradingService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) GradingService {
	return &gradingService{
		repo:           repo,
		attemptService: NewAttemptService(repo, db, logger, validator),
		db:             db,
		logger:         logger,
		validator:      validator,
		publisher:      publisher,
	}
}

func (s *gradingService) SubmitQuiz(ctx context.Context, req *SubmitQuizRequest, studentID string) (*SubmitQuizResponse, error) {
	if studentID == "" {
		return nil, NewValidationError("student_id", "student id is required", studentID)
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Course().ExistsByID(ctx, nil, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course existence: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	// One letter per question id; a repeated id keeps the last submission,
	// matching map semantics on the wire.
	submitted := make(map[uint]models.OptionLetter, len(req.Answers))
	order := make([]uint, 0, len(req.Answers))
	for _, a := range req.Answers {
		if _, seen := submitted[a.QuestionID]; !seen {
			order = append(order, a.QuestionID)
		}
		submitted[a.QuestionID] = models.OptionLetter(a.Letter)
	}

	// Re-fetch authoritative keys for exactly the submitted ids, scoped to
	// the course. Ids that no longer resolve drop out of the denominator.
	questions, err := s.repo.Question().GetByIDs(ctx, nil, req.CourseID, order)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questions for grading: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoGradableQuestions
	}

	keyByID := make(map[uint]models.OptionLetter, len(questions))
	for _, q := range questions {
		keyByID[q.ID] = q.CorrectOption
	}

	total := len(questions)
	score := 0
	gradedIDs := make([]uint, 0, total)
	for _, id := range order {
		key, ok := keyByID[id]
		if !ok {
			continue
		}
		gradedIDs = append(gradedIDs, id)
		if submitted[id] == key {
			score++
		}
	}
	percentage := int(math.Round(100 * float64(score) / float64(total)))

	idsJSON, err := json.Marshal(gradedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode graded question ids: %w", err)
	}

	var (
		attempt  *models.QuizAttempt
		sequence *AttemptSequence
	)
	for try := 0; try < sequenceRetries; try++ {
		err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
			seq, seqErr := s.attemptService.NextSequence(ctx, tx, studentID, req.CourseID, score)
			if seqErr != nil {
				return seqErr
			}

			a := &models.QuizAttempt{
				StudentID:     studentID,
				CourseID:      req.CourseID,
				QuestionIDs:   idsJSON,
				Score:         score,
				Total:         total,
				Percentage:    percentage,
				AttemptNumber: seq.AttemptNumber,
			}
			if createErr := s.repo.Attempt().Create(ctx, tx, a); createErr != nil {
				return createErr
			}

			attempt = a
			sequence = seq
			return nil
		})
		if err == nil {
			break
		}
		if !repositories.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to persist attempt: %w", err)
		}
		s.logger.Warn("Attempt number conflict, retrying",
			"student_id", studentID, "course_id", req.CourseID, "try", try+1)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to persist attempt after %d tries: %w", sequenceRetries, err)
	}

	tier, message := ClassifyPerformance(percentage)

	s.publishSubmitted(ctx, attempt, tier)

	s.logger.Info("Quiz graded",
		"student_id", studentID, "course_id", req.CourseID,
		"score", score, "total", total, "percentage", percentage,
		"attempt_number", sequence.AttemptNumber)

	return &SubmitQuizResponse{
		Score:         score,
		Total:         total,
		Percentage:    percentage,
		Tier:          tier,
		Message:       message,
		AttemptNumber: sequence.AttemptNumber,
		PreviousScore: sequence.PreviousScore,
		Difference:    sequence.Difference,
	}, nil
}

// publishSubmitted emits the attempt event. Publishing is best effort: the
// attempt is already committed, a bus outage must not fail the submission.
func (s *gradingService) publishSubmitted(ctx context.Context, attempt *models.QuizAttempt, tier PerformanceTier) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.EventAttemptSubmitted, events.AttemptSubmittedEvent{
		AttemptID:     attempt.ID,
		StudentID:     attempt.StudentID,
		CourseID:      attempt.CourseID,
		Score:         attempt.Score,
		Total:         attempt.Total,
		Percentage:    attempt.Percentage,
		AttemptNumber: attempt.AttemptNumber,
		Tier:          string(tier),
	})
	if err != nil {
		s.logger.Error("Failed to publish attempt event", "attempt_id", attempt.ID, "error", err)
	}
}
