package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursebank/quiz-service/internal/services"
	"github.com/coursebank/quiz-service/internal/utils"
)

type LeaderboardHandler struct {
	BaseHandler
	leaderboardService services.LeaderboardService
	exportService      services.ExportService
}

func NewLeaderboardHandler(
	leaderboardService services.LeaderboardService,
	exportService services.ExportService,
	logger utils.Logger,
) *LeaderboardHandler {
	return &LeaderboardHandler{
		BaseHandler:        NewBaseHandler(logger),
		leaderboardService: leaderboardService,
		exportService:      exportService,
	}
}

// GetLeaderboard returns the ranked leaderboard
// @Summary Get leaderboard
// @Description Ranks students by mean quiz percentage, minimum 3 attempts
// @Tags leaderboard
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]services.LeaderboardEntry}
// @Failure 500 {object} ErrorResponse
// @Router /leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	h.LogRequest(c, "Computing leaderboard")

	entries, err := h.leaderboardService.GetLeaderboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: entries})
}

// ExportLeaderboard downloads the leaderboard as a spreadsheet
// @Summary Export leaderboard
// @Tags leaderboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /leaderboard/export [get]
func (h *LeaderboardHandler) ExportLeaderboard(c *gin.Context) {
	h.LogRequest(c, "Exporting leaderboard")

	f, err := h.exportService.ExportLeaderboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	writeSpreadsheet(c, f, "leaderboard.xlsx", h.BaseHandler)
}
