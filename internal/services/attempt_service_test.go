package services

import (
	"context"
	"errors"
	"testing"

	"github.com/coursebank/quiz-service/internal/models"
	"github.com/coursebank/quiz-service/internal/repositories"
)

func TestAttemptService_NextSequence(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewAttemptService(repo, nil, testLogger(), newTestValidator(t))

	t.Run("first attempt", func(t *testing.T) {
		seq, err := svc.NextSequence(ctx, nil, "student-1", 1, 5)
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if seq.AttemptNumber != 1 {
			t.Errorf("attempt number = %d, want 1", seq.AttemptNumber)
		}
		if seq.PreviousScore != nil || seq.Difference != nil {
			t.Error("first attempt must have nil previous score and difference")
		}
	})

	t.Run("numbers increase monotonically", func(t *testing.T) {
		scores := []int{3, 5, 2}
		for i, score := range scores {
			seq, err := svc.NextSequence(ctx, nil, "student-1", 1, score)
			if err != nil {
				t.Fatalf("NextSequence failed: %v", err)
			}
			if seq.AttemptNumber != i+1 {
				t.Errorf("attempt %d numbered %d", i+1, seq.AttemptNumber)
			}
			if err := repo.attempts.Create(ctx, nil, &models.QuizAttempt{
				StudentID:     "student-1",
				CourseID:      1,
				Score:         score,
				Total:         5,
				Percentage:    score * 20,
				AttemptNumber: seq.AttemptNumber,
			}); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}

		seq, err := svc.NextSequence(ctx, nil, "student-1", 1, 4)
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if seq.AttemptNumber != 4 {
			t.Errorf("attempt number = %d, want 4", seq.AttemptNumber)
		}
		if seq.PreviousScore == nil || *seq.PreviousScore != 2 {
			t.Errorf("previous score = %v, want 2 (latest attempt, not best)", seq.PreviousScore)
		}
		if seq.Difference == nil || *seq.Difference != 2 {
			t.Errorf("difference = %v, want 2", seq.Difference)
		}
	})
}

func TestAttemptService_GetHistory(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewAttemptService(repo, nil, testLogger(), newTestValidator(t))

	for i, courseID := range []uint{1, 1, 2} {
		if err := repo.attempts.Create(ctx, nil, &models.QuizAttempt{
			StudentID:     "student-1",
			CourseID:      courseID,
			Score:         i,
			Total:         5,
			Percentage:    i * 20,
			AttemptNumber: i + 1,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	t.Run("all courses", func(t *testing.T) {
		history, err := svc.GetHistory(ctx, "student-1", nil, repositories.AttemptFilters{})
		if err != nil {
			t.Fatalf("GetHistory failed: %v", err)
		}
		if history.Total != 3 || len(history.Attempts) != 3 {
			t.Errorf("got %d attempts (total %d), want 3", len(history.Attempts), history.Total)
		}
	})

	t.Run("narrowed to one course", func(t *testing.T) {
		courseID := uint(2)
		history, err := svc.GetHistory(ctx, "student-1", &courseID, repositories.AttemptFilters{})
		if err != nil {
			t.Fatalf("GetHistory failed: %v", err)
		}
		if len(history.Attempts) != 1 {
			t.Fatalf("got %d attempts for course 2, want 1", len(history.Attempts))
		}
		if history.Attempts[0].CourseID != 2 {
			t.Errorf("attempt course = %d, want 2", history.Attempts[0].CourseID)
		}
	})

	t.Run("missing student id is a bad request", func(t *testing.T) {
		if _, err := svc.GetHistory(ctx, "", nil, repositories.AttemptFilters{}); !IsValidationError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestAttemptService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewAttemptService(repo, nil, testLogger(), newTestValidator(t))

	if _, err := svc.GetByID(ctx, 42); !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("expected ErrAttemptNotFound, got %v", err)
	}

	created := &models.QuizAttempt{StudentID: "student-1", CourseID: 1, Score: 1, Total: 1, Percentage: 100, AttemptNumber: 1}
	if err := repo.attempts.Create(ctx, nil, created); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.StudentID != "student-1" || got.AttemptNumber != 1 {
		t.Errorf("unexpected attempt %+v", got)
	}
}
