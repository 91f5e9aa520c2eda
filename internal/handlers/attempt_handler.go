package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/coursebank/quiz-service/internal/repositories"
	"github.com/coursebank/quiz-service/internal/services"
	"github.com/coursebank/quiz-service/internal/utils"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
	exportService  services.ExportService
}

func NewAttemptHandler(
	attemptService services.AttemptService,
	exportService services.ExportService,
	logger utils.Logger,
) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
		exportService:  exportService,
	}
}

// GetAttemptHistory lists a student's attempts, newest first
// @Summary Get attempt history
// @Description Lists a student's quiz attempts, optionally narrowed to one course
// @Tags attempts
// @Produce json
// @Param id path string true "Student ID"
// @Param course_id query int false "Course ID"
// @Success 200 {object} SuccessResponse{data=services.AttemptHistoryResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /students/{id}/attempts [get]
func (h *AttemptHandler) GetAttemptHistory(c *gin.Context) {
	studentID := c.Param("id")

	courseID, ok := h.parseCourseQuery(c)
	if !ok {
		return
	}

	filters := repositories.AttemptFilters{}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && limit > 0 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset > 0 {
		filters.Offset = offset
	}

	h.LogRequest(c, "Fetching attempt history", "student_id", studentID)

	history, err := h.attemptService.GetHistory(c.Request.Context(), studentID, courseID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: history})
}

// GetAttempt retrieves one attempt by ID
// @Summary Get attempt
// @Tags attempts
// @Produce json
// @Param id path int true "Attempt ID"
// @Success 200 {object} SuccessResponse{data=models.QuizAttempt}
// @Failure 404 {object} ErrorResponse
// @Router /attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	attempt, err := h.attemptService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: attempt})
}

// ExportAttemptHistory downloads a student's attempts as a spreadsheet
// @Summary Export attempt history
// @Tags attempts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Student ID"
// @Param course_id query int false "Course ID"
// @Success 200 {file} binary
// @Router /students/{id}/attempts/export [get]
func (h *AttemptHandler) ExportAttemptHistory(c *gin.Context) {
	studentID := c.Param("id")

	courseID, ok := h.parseCourseQuery(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting attempt history", "student_id", studentID)

	f, err := h.exportService.ExportAttemptHistory(c.Request.Context(), studentID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	writeSpreadsheet(c, f, "attempts_"+studentID+".xlsx", h.BaseHandler)
}

// parseCourseQuery reads the optional course_id query parameter. The second
// return value is false when the parameter is present but malformed (a 400
// has already been written).
func (h *AttemptHandler) parseCourseQuery(c *gin.Context) (*uint, bool) {
	raw := c.Query("course_id")
	if raw == "" {
		return nil, true
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid course_id parameter",
			Details: raw,
		})
		return nil, false
	}
	courseID := uint(parsed)
	return &courseID, true
}

func writeSpreadsheet(c *gin.Context, f *excelize.File, filename string, h BaseHandler) {
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("Failed to stream spreadsheet", "error", err)
	}
}
