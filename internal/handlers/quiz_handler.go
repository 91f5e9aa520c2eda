package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursebank/quiz-service/internal/services"
	"github.com/coursebank/quiz-service/internal/utils"
	"github.com/coursebank/quiz-service/internal/validator"
)

type QuizHandler struct {
	BaseHandler
	quizService    services.QuizService
	gradingService services.GradingService
	validator      *validator.Validator
}

func NewQuizHandler(
	quizService services.QuizService,
	gradingService services.GradingService,
	validator *validator.Validator,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler:    NewBaseHandler(logger),
		quizService:    quizService,
		gradingService: gradingService,
		validator:      validator,
	}
}

// GetQuiz issues a randomized quiz set for a course
// @Summary Get quiz set
// @Description Returns a randomized subset of the course's question pool, answer keys withheld
// @Tags quiz
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} SuccessResponse{data=[]services.QuizQuestion}
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses/{id}/quiz [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	h.LogRequest(c, "Issuing quiz set", "course_id", courseID)

	quiz, err := h.quizService.GetQuizSet(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: quiz})
}

// GetCourseStats summarizes a course's pool and attempt activity
// @Summary Get course stats
// @Description Returns the course's question count and attempt aggregates
// @Tags quiz
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} SuccessResponse{data=services.CourseStatsResponse}
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses/{id}/stats [get]
func (h *QuizHandler) GetCourseStats(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	h.LogRequest(c, "Fetching course stats", "course_id", courseID)

	stats, err := h.quizService.GetCourseStats(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: stats})
}

// SubmitQuiz grades a submitted quiz
// @Summary Submit quiz answers
// @Description Grades the submitted answers and persists the attempt
// @Tags quiz
// @Accept json
// @Produce json
// @Param submission body services.SubmitQuizRequest true "Quiz submission"
// @Success 200 {object} SuccessResponse{data=services.SubmitQuizResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /quiz/submit [post]
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	var req services.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	studentID := c.GetString("student_id")
	if studentID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Student not identified",
		})
		return
	}

	h.LogRequest(c, "Grading quiz submission", "student_id", studentID, "course_id", req.CourseID)

	result, err := h.gradingService.SubmitQuiz(c.Request.Context(), &req, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: result})
}
