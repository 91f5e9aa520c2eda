package repositories

import (
	"time"
)

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	CourseID  *uint  `json:"course_id"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "id"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

type AttemptFilters struct {
	StudentID *string    `json:"student_id"`
	CourseID  *uint      `json:"course_id"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// ===== SHARED AGGREGATE STRUCTS =====

// StudentAggregate is one student's raw leaderboard input: the arithmetic mean
// of percentage across every attempt (all courses combined) and the attempt
// count. Filtering, rounding and ranking happen in the service layer.
type StudentAggregate struct {
	StudentID      string  `json:"student_id"`
	MeanPercentage float64 `json:"mean_percentage"`
	AttemptCount   int     `json:"attempt_count"`
}

type CourseAttemptStats struct {
	TotalAttempts     int64   `json:"total_attempts"`
	DistinctStudents  int64   `json:"distinct_students"`
	AveragePercentage float64 `json:"average_percentage"`
}
