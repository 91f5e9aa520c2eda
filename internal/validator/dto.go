package validator

// AnswerSubmission is one (question, letter) pair of a quiz submission. The
// letter is constrained to the four option letters at the boundary; anything
// else is a bad request, not an incorrect answer.
type AnswerSubmission struct {
	QuestionID uint   `json:"question_id" validate:"required"`
	Letter     string `json:"letter" validate:"required,oneof=A B C D"`
}

// SubmitQuizRequest carries a full quiz submission for grading.
type SubmitQuizRequest struct {
	CourseID uint               `json:"course_id" validate:"required"`
	Answers  []AnswerSubmission `json:"answers" validate:"required,min=1,dive"`
}
