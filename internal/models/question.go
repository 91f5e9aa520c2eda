package models

import (
	"time"
)

type OptionLetter string

const (
	OptionA OptionLetter = "A"
	OptionB OptionLetter = "B"
	OptionC OptionLetter = "C"
	OptionD OptionLetter = "D"
)

// ValidLetter reports whether s is one of the four answer letters.
func ValidLetter(s string) bool {
	switch OptionLetter(s) {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// Question is a single multiple-choice item in a course's question pool.
// The pool is owned by the content-management service; this service reads it
// to issue quiz sets and to grade submissions. CorrectOption must never reach
// a student-facing response.
type Question struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CourseID uint   `json:"course_id" gorm:"not null;index"`
	Prompt   string `json:"prompt" gorm:"type:text;not null"`

	OptionA string `json:"option_a" gorm:"type:text;not null"`
	OptionB string `json:"option_b" gorm:"type:text;not null"`
	OptionC string `json:"option_c" gorm:"type:text;not null"`
	OptionD string `json:"option_d" gorm:"type:text;not null"`

	// Authoritative answer key, one of A/B/C/D.
	CorrectOption OptionLetter `json:"correct_option" gorm:"size:1;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Course Course `json:"-" gorm:"foreignKey:CourseID"`
}

// Course is a read view of course metadata owned by content management.
type Course struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"not null;size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Option returns the option text for a letter, or "" for anything else.
func (q *Question) Option(letter OptionLetter) string {
	switch letter {
	case OptionA:
		return q.OptionA
	case OptionB:
		return q.OptionB
	case OptionC:
		return q.OptionC
	case OptionD:
		return q.OptionD
	}
	return ""
}
