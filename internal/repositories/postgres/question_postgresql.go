package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/coursebank/quiz-service/internal/cache"
	"github.com/coursebank/quiz-service/internal/models"
	"github.com/coursebank/quiz-service/internal/repositories"
)

type QuestionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewQuestionPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (q *QuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	db := q.getDB(tx)
	var question models.Question
	if err := db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// GetByIDs fetches the authoritative rows for exactly the given IDs within a
// course. IDs deleted since the quiz was issued are absent from the result;
// the grader excludes them from the denominator rather than guessing.
func (q *QuestionPostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, courseID uint, ids []uint) ([]*models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := q.getDB(tx)
	var questions []*models.Question
	if err := db.WithContext(ctx).
		Where("course_id = ? AND id IN ?", courseID, ids).
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to get questions by ids: %w", err)
	}

	return questions, nil
}

// GetRandomByCourse samples up to count questions uniformly at random without
// replacement. ORDER BY RANDOM() is fine at question-pool sizes; rows never
// repeat within one draw.
func (q *QuestionPostgreSQL) GetRandomByCourse(ctx context.Context, tx *gorm.DB, courseID uint, count int) ([]*models.Question, error) {
	db := q.getDB(tx)
	var questions []*models.Question
	if err := db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("RANDOM()").
		Limit(count).
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}

	return questions, nil
}

func (q *QuestionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	db := q.getDB(tx)
	var questions []*models.Question
	var total int64

	query := db.WithContext(ctx).Model(&models.Question{})
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "id"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "desc" {
		sortOrder = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

func (q *QuestionPostgreSQL) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error) {
	db := q.getDB(tx)
	var count int64

	cacheKey := fmt.Sprintf("course:%d:count", courseID)
	err := q.cacheManager.Pool.CacheOrExecute(ctx, cacheKey, &count, cache.PoolCacheConfig.TTL, func() (interface{}, error) {
		var dbCount int64
		if err := db.WithContext(ctx).
			Model(&models.Question{}).
			Where("course_id = ?", courseID).
			Count(&dbCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count questions: %w", err)
		}
		return dbCount, nil
	})

	return count, err
}

// ===== COURSE (read view) =====

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (c *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := c.getDB(tx)
	var course models.Course
	if err := db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := c.getDB(tx)
	var exists bool

	cacheKey := fmt.Sprintf("course:%d", id)
	err := c.cacheManager.Exists.CacheOrExecute(ctx, cacheKey, &exists, cache.ExistsCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		if err := db.WithContext(ctx).
			Model(&models.Course{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check course existence: %w", err)
		}
		return count > 0, nil
	})

	return exists, err
}
