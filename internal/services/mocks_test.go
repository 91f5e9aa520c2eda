package services

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/coursebank/quiz-service/internal/models"
	"github.com/coursebank/quiz-service/internal/repositories"
	"github.com/coursebank/quiz-service/internal/validator"
)

// In-memory Repository for testing. The attempt store enforces the same
// uniqueness rule as the real table so sequencing conflicts are observable.

type fakeRepository struct {
	questions *fakeQuestionRepo
	courses   *fakeCourseRepo
	attempts  *fakeAttemptRepo
	users     *fakeUserRepo
}

func newFakeRepository() *fakeRepository {
	attempts := &fakeAttemptRepo{}
	return &fakeRepository{
		questions: &fakeQuestionRepo{byID: make(map[uint]*models.Question)},
		courses:   &fakeCourseRepo{ids: make(map[uint]bool)},
		attempts:  attempts,
		users:     &fakeUserRepo{byID: make(map[string]*models.User)},
	}
}

func (r *fakeRepository) Question() repositories.QuestionRepository       { return r.questions }
func (r *fakeRepository) Course() repositories.CourseRepository           { return r.courses }
func (r *fakeRepository) Attempt() repositories.AttemptRepository         { return r.attempts }
func (r *fakeRepository) Leaderboard() repositories.LeaderboardRepository { return r.attempts }
func (r *fakeRepository) User() repositories.UserRepository               { return r.users }
func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }

// ===== QUESTIONS =====

type fakeQuestionRepo struct {
	mu   sync.Mutex
	byID map[uint]*models.Question
}

func (f *fakeQuestionRepo) add(q *models.Question) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[q.ID] = q
}

func (f *fakeQuestionRepo) remove(id uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
}

func (f *fakeQuestionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return q, nil
}

func (f *fakeQuestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, courseID uint, ids []uint) ([]*models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Question
	for _, id := range ids {
		if q, ok := f.byID[id]; ok && q.CourseID == courseID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) GetRandomByCourse(ctx context.Context, tx *gorm.DB, courseID uint, count int) ([]*models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pool []*models.Question
	for _, q := range f.byID {
		if q.CourseID == courseID {
			pool = append(pool, q)
		}
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > count {
		pool = pool[:count]
	}
	return pool, nil
}

func (f *fakeQuestionRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Question
	for _, q := range f.byID {
		if filters.CourseID != nil && q.CourseID != *filters.CourseID {
			continue
		}
		out = append(out, q)
	}
	return out, int64(len(out)), nil
}

func (f *fakeQuestionRepo) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, q := range f.byID {
		if q.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

// ===== COURSES =====

type fakeCourseRepo struct {
	mu  sync.Mutex
	ids map[uint]bool
}

func (f *fakeCourseRepo) add(id uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids[id] = true
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ids[id] {
		return nil, repositories.ErrNotFound
	}
	return &models.Course{ID: id, Title: "Course"}, nil
}

func (f *fakeCourseRepo) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ids[id], nil
}

// ===== ATTEMPTS =====

type fakeAttemptRepo struct {
	mu       sync.Mutex
	attempts []*models.QuizAttempt
	nextID   uint
}

func (f *fakeAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attempts {
		if a.StudentID == attempt.StudentID && a.CourseID == attempt.CourseID && a.AttemptNumber == attempt.AttemptNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	attempt.ID = f.nextID
	attempt.CreatedAt = time.Now()
	stored := *attempt
	f.attempts = append(f.attempts, &stored)
	return nil
}

func (f *fakeAttemptRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attempts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAttemptRepo) GetLatest(ctx context.Context, tx *gorm.DB, studentID string, courseID uint) (*models.QuizAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *models.QuizAttempt
	for _, a := range f.attempts {
		if a.StudentID != studentID || a.CourseID != courseID {
			continue
		}
		if latest == nil || a.AttemptNumber > latest.AttemptNumber {
			latest = a
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	return latest, nil
}

func (f *fakeAttemptRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.QuizAttempt
	for _, a := range f.attempts {
		if filters.StudentID != nil && a.StudentID != *filters.StudentID {
			continue
		}
		if filters.CourseID != nil && a.CourseID != *filters.CourseID {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (f *fakeAttemptRepo) CountByStudent(ctx context.Context, tx *gorm.DB, studentID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.attempts {
		if a.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

// LeaderboardRepository over the same backing slice.

func (f *fakeAttemptRepo) GetStudentAggregates(ctx context.Context, tx *gorm.DB) ([]*repositories.StudentAggregate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string
	for _, a := range f.attempts {
		if _, seen := counts[a.StudentID]; !seen {
			order = append(order, a.StudentID)
		}
		sums[a.StudentID] += float64(a.Percentage)
		counts[a.StudentID]++
	}
	var out []*repositories.StudentAggregate
	for _, id := range order {
		out = append(out, &repositories.StudentAggregate{
			StudentID:      id,
			MeanPercentage: sums[id] / float64(counts[id]),
			AttemptCount:   counts[id],
		})
	}
	return out, nil
}

func (f *fakeAttemptRepo) GetCourseStats(ctx context.Context, tx *gorm.DB, courseID uint) (*repositories.CourseAttemptStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &repositories.CourseAttemptStats{}
	students := make(map[string]bool)
	var sum float64
	for _, a := range f.attempts {
		if a.CourseID != courseID {
			continue
		}
		stats.TotalAttempts++
		students[a.StudentID] = true
		sum += float64(a.Percentage)
	}
	stats.DistinctStudents = int64(len(students))
	if stats.TotalAttempts > 0 {
		stats.AveragePercentage = sum / float64(stats.TotalAttempts)
	}
	return stats, nil
}

// ===== USERS =====

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User
}

func (f *fakeUserRepo) add(u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byID[id]
	return ok, nil
}

// ===== TEST HELPERS =====

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func seedCourse(t *testing.T, repo *fakeRepository, courseID uint, keys []models.OptionLetter) []uint {
	t.Helper()
	repo.courses.add(courseID)
	ids := make([]uint, 0, len(keys))
	for i, key := range keys {
		id := courseID*100 + uint(i) + 1
		repo.questions.add(&models.Question{
			ID:            id,
			CourseID:      courseID,
			Prompt:        "prompt",
			OptionA:       "a",
			OptionB:       "b",
			OptionC:       "c",
			OptionD:       "d",
			CorrectOption: key,
		})
		ids = append(ids, id)
	}
	return ids
}

func newTestValidator(t *testing.T) *validator.Validator {
	t.Helper()
	return validator.New()
}
