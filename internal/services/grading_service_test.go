package services

import (
	"context"
	"errors"
	"testing"

	"github.com/coursebank/quiz-service/internal/events"
	"github.com/coursebank/quiz-service/internal/models"
)

func newGradingFixture(t *testing.T) (*fakeRepository, *events.MockEventPublisher, GradingService) {
	t.Helper()
	repo := newFakeRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewGradingService(repo, nil, testLogger(), newTestValidator(t), publisher)
	return repo, publisher, svc
}

func answers(ids []uint, letters ...string) []AnswerSubmission {
	out := make([]AnswerSubmission, len(letters))
	for i, l := range letters {
		out[i] = AnswerSubmission{QuestionID: ids[i], Letter: l}
	}
	return out
}

func TestGradingService_SubmitQuiz_FirstAndSecondAttempt(t *testing.T) {
	ctx := context.Background()
	repo, publisher, svc := newGradingFixture(t)

	// Keys B, A, D, C, A for five questions.
	ids := seedCourse(t, repo, 1, []models.OptionLetter{
		models.OptionB, models.OptionA, models.OptionD, models.OptionC, models.OptionA,
	})

	first, err := svc.SubmitQuiz(ctx, &SubmitQuizRequest{
		CourseID: 1,
		Answers:  answers(ids, "B", "A", "C", "C", "A"),
	}, "student-1")
	if err != nil {
		t.Fatalf("first SubmitQuiz failed: %v", err)
	}
	if first.Score != 4 || first.Total != 5 || first.Percentage != 80 {
		t.Errorf("first attempt scored %d/%d (%d%%), want 4/5 (80%%)", first.Score, first.Total, first.Percentage)
	}
	if first.Tier != TierVeryGood {
		t.Errorf("first attempt tier = %s, want %s", first.Tier, TierVeryGood)
	}
	if first.AttemptNumber != 1 {
		t.Errorf("first attempt number = %d, want 1", first.AttemptNumber)
	}
	if first.PreviousScore != nil || first.Difference != nil {
		t.Errorf("first attempt should have nil previous score and difference, got %v / %v",
			first.PreviousScore, first.Difference)
	}

	second, err := svc.SubmitQuiz(ctx, &SubmitQuizRequest{
		CourseID: 1,
		Answers:  answers(ids, "A", "A", "C", "C", "A"),
	}, "student-1")
	if err != nil {
		t.Fatalf("second SubmitQuiz failed: %v", err)
	}
	if second.Score != 3 || second.Percentage != 60 || second.Tier != TierGood {
		t.Errorf("second attempt = %d/%d%% tier %s, want 3/60%% tier %s",
			second.Score, second.Percentage, second.Tier, TierGood)
	}
	if second.AttemptNumber != 2 {
		t.Errorf("second attempt number = %d, want 2", second.AttemptNumber)
	}
	if second.PreviousScore == nil || *second.PreviousScore != 4 {
		t.Errorf("second attempt previous score = %v, want 4", second.PreviousScore)
	}
	if second.Difference == nil || *second.Difference != -1 {
		t.Errorf("second attempt difference = %v, want -1", second.Difference)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(published))
	}
	if published[0].Type != events.EventAttemptSubmitted {
		t.Errorf("event type = %s, want %s", published[0].Type, events.EventAttemptSubmitted)
	}
}

func TestGradingService_SubmitQuiz_WithoutPublisherStillPersists(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	ids := seedCourse(t, repo, 1, []models.OptionLetter{models.OptionA})

	// The event bus is optional: when Kafka setup fails at startup the
	// service runs without a publisher, and grading must not touch it.
	svc := NewGradingService(repo, nil, testLogger(), newTestValidator(t), nil)

	resp, err := svc.SubmitQuiz(ctx, &SubmitQuizRequest{
		CourseID: 1, Answers: answers(ids, "A"),
	}, "student-1")
	if err != nil {
		t.Fatalf("SubmitQuiz without a publisher failed: %v", err)
	}
	if resp.AttemptNumber != 1 || resp.Score != 1 {
		t.Errorf("unexpected result %+v", resp)
	}
	if n, _ := repo.attempts.CountByStudent(ctx, nil, "student-1"); n != 1 {
		t.Errorf("expected exactly 1 persisted attempt, found %d", n)
	}
}

func TestGradingService_SubmitQuiz_GradesOnlySubmittedIDs(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newGradingFixture(t)

	ids := seedCourse(t, repo, 1, []models.OptionLetter{
		models.OptionA, models.OptionB, models.OptionC, models.OptionD, models.OptionA,
	})

	// Only two of the five pool questions are submitted; the denominator is 2.
	resp, err := svc.SubmitQuiz(ctx, &SubmitQuizRequest{
		CourseID: 1,
		Answers: []AnswerSubmission{
			{QuestionID: ids[0], Letter: "A"},
			{QuestionID: ids[1], Letter: "C"},
		},
	}, "student-1")
	if err != nil {
		t.Fatalf("SubmitQuiz failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2 (only submitted ids count)", resp.Total)
	}
	if resp.Score != 1 || resp.Percentage != 50 {
		t.Errorf("scored %d (%d%%), want 1 (50%%)", resp.Score, resp.Percentage)
	}
}

func TestGradingService_SubmitQuiz_StaleIDsExcludedFromDenominator(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newGradingFixture(t)

	ids := seedCourse(t, repo, 1, []models.OptionLetter{
		models.OptionA, models.OptionB, models.OptionC,
	})

	// One question is deleted between issue and submission.
	repo.questions.remove(ids[2])

	resp, err := svc.SubmitQuiz(ctx, &SubmitQuizRequest{
		CourseID: 1,
		Answers:  answers(ids, "A", "B", "C"),
	}, "student-1")
	if err != nil {
		t.Fatalf("SubmitQuiz failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2 (stale id must not count)", resp.Total)
	}
	if resp.Score != 2 || resp.Percentage != 100 {
		t.Errorf("scored %d (%d%%), want 2 (100%%)", resp.Score, resp.Percentage)
	}
	if resp.Score > resp.Total {
		t.Errorf("score %d exceeds total %d", resp.Score, resp.Total)
	}
}

func TestGradingService_SubmitQuiz_NoGradableQuestions(t *testing.T) {
	ctx := context.Background()
	repo, publisher, svc := newGradingFixture(t)
	repo.courses.add(1)

	_, err := svc.SubmitQuiz(ctx, &SubmitQuizRequest{
		CourseID: 1,
		Answers: []AnswerSubmission{
			{QuestionID: 404, Letter: "A"},
			{QuestionID: 405, Letter: "B"},
		},
	}, "student-1")
	if !errors.Is(err, ErrNoGradableQuestions) {
		t.Fatalf("expected ErrNoGradableQuestions, got %v", err)
	}

	// Nothing persisted, nothing published.
	if n, _ := repo.attempts.CountByStudent(ctx, nil, "student-1"); n != 0 {
		t.Errorf("expected no attempt persisted, found %d", n)
	}
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("expected no events for a rejected submission")
	}
}

func TestGradingService_SubmitQuiz_OtherCoursesQuestionsDoNotResolve(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newGradingFixture(t)

	idsC1 := seedCourse(t, repo, 1, []models.OptionLetter{models.OptionA})
	idsC2 := seedCourse(t, repo, 2, []models.OptionLetter{models.OptionA})

	resp, err := svc.SubmitQuiz(ctx, &SubmitQuizRequest{
		CourseID: 1,
		Answers: []AnswerSubmission{
			{QuestionID: idsC1[0], Letter: "A"},
			{QuestionID: idsC2[0], Letter: "A"},
		},
	}, "student-1")
	if err != nil {
		t.Fatalf("SubmitQuiz failed: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("total = %d, want 1 (cross-course id must not resolve)", resp.Total)
	}
}

func TestGradingService_SubmitQuiz_BadRequests(t *testing.T) {
	ctx := context.Background()
	repo, publisher, svc := newGradingFixture(t)
	ids := seedCourse(t, repo, 1, []models.OptionLetter{models.OptionA})

	tests := []struct {
		name      string
		req       *SubmitQuizRequest
		studentID string
	}{
		{"missing student", &SubmitQuizRequest{CourseID: 1, Answers: answers(ids, "A")}, ""},
		{"missing course", &SubmitQuizRequest{Answers: answers(ids, "A")}, "student-1"},
		{"empty answers", &SubmitQuizRequest{CourseID: 1}, "student-1"},
		{"invalid letter", &SubmitQuizRequest{
			CourseID: 1,
			Answers:  []AnswerSubmission{{QuestionID: ids[0], Letter: "E"}},
		}, "student-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SubmitQuiz(ctx, tt.req, tt.studentID); err == nil {
				t.Error("expected a validation error, got nil")
			}
		})
	}

	// Rejections happen before any side effect.
	if n, _ := repo.attempts.CountByStudent(ctx, nil, "student-1"); n != 0 {
		t.Errorf("expected no attempts persisted, found %d", n)
	}
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("expected no events for rejected submissions")
	}
}

func TestGradingService_SubmitQuiz_SequenceAcrossCoursesIsIndependent(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newGradingFixture(t)

	idsC1 := seedCourse(t, repo, 1, []models.OptionLetter{models.OptionA})
	idsC2 := seedCourse(t, repo, 2, []models.OptionLetter{models.OptionA})

	for i := 0; i < 3; i++ {
		resp, err := svc.SubmitQuiz(ctx, &SubmitQuizRequest{
			CourseID: 1, Answers: answers(idsC1, "A"),
		}, "student-1")
		if err != nil {
			t.Fatalf("SubmitQuiz failed: %v", err)
		}
		if resp.AttemptNumber != i+1 {
			t.Errorf("course 1 attempt %d numbered %d", i+1, resp.AttemptNumber)
		}
	}

	resp, err := svc.SubmitQuiz(ctx, &SubmitQuizRequest{
		CourseID: 2, Answers: answers(idsC2, "A"),
	}, "student-1")
	if err != nil {
		t.Fatalf("SubmitQuiz failed: %v", err)
	}
	if resp.AttemptNumber != 1 {
		t.Errorf("course 2 first attempt numbered %d, want 1", resp.AttemptNumber)
	}
	if resp.PreviousScore != nil {
		t.Errorf("course 2 first attempt previous score = %v, want nil", resp.PreviousScore)
	}
}

func TestGradingService_SubmitQuiz_PreviousScoreZeroIsNotNone(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newGradingFixture(t)
	ids := seedCourse(t, repo, 1, []models.OptionLetter{models.OptionA})

	if _, err := svc.SubmitQuiz(ctx, &SubmitQuizRequest{
		CourseID: 1, Answers: answers(ids, "B"),
	}, "student-1"); err != nil {
		t.Fatalf("SubmitQuiz failed: %v", err)
	}

	resp, err := svc.SubmitQuiz(ctx, &SubmitQuizRequest{
		CourseID: 1, Answers: answers(ids, "A"),
	}, "student-1")
	if err != nil {
		t.Fatalf("SubmitQuiz failed: %v", err)
	}
	if resp.PreviousScore == nil || *resp.PreviousScore != 0 {
		t.Errorf("previous score = %v, want non-nil 0", resp.PreviousScore)
	}
	if resp.Difference == nil || *resp.Difference != 1 {
		t.Errorf("difference = %v, want 1", resp.Difference)
	}
}
