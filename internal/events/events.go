package events

import (
	"time"
)

// Event types published by the quiz service.
const (
	EventAttemptSubmitted = "quiz.attempt.submitted"
)

// EventSource identifies this service in published events.
const EventSource = "quiz-service"

// Event is the envelope for every message on the bus.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// AttemptSubmittedEvent is emitted after an attempt is durably persisted.
// Consumers (notifications, analytics) must treat it as at-most-once: a
// publish failure is logged, never retried, and never fails the submission.
type AttemptSubmittedEvent struct {
	AttemptID     uint   `json:"attempt_id"`
	StudentID     string `json:"student_id"`
	CourseID      uint   `json:"course_id"`
	Score         int    `json:"score"`
	Total         int    `json:"total"`
	Percentage    int    `json:"percentage"`
	AttemptNumber int    `json:"attempt_number"`
	Tier          string `json:"tier"`
}
