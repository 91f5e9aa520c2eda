package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursebank/quiz-service/internal/services"
	"github.com/coursebank/quiz-service/internal/utils"
	"github.com/coursebank/quiz-service/internal/validator"
)

type HandlerManager struct {
	quizHandler        *QuizHandler
	attemptHandler     *AttemptHandler
	leaderboardHandler *LeaderboardHandler
	serviceManager     services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:        NewQuizHandler(serviceManager.Quiz(), serviceManager.Grading(), validator, logger),
		attemptHandler:     NewAttemptHandler(serviceManager.Attempt(), serviceManager.Export(), logger),
		leaderboardHandler: NewLeaderboardHandler(serviceManager.Leaderboard(), serviceManager.Export(), logger),
		serviceManager:     serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")
	{
		// Issuing and reading need no caller identity.
		v1.GET("/courses/:id/quiz", hm.quizHandler.GetQuiz)
		v1.GET("/courses/:id/stats", hm.quizHandler.GetCourseStats)
		v1.GET("/leaderboard", hm.leaderboardHandler.GetLeaderboard)
		v1.GET("/leaderboard/export", hm.leaderboardHandler.ExportLeaderboard)
		v1.GET("/students/:id/attempts", hm.attemptHandler.GetAttemptHistory)
		v1.GET("/students/:id/attempts/export", hm.attemptHandler.ExportAttemptHistory)
		v1.GET("/attempts/:id", hm.attemptHandler.GetAttempt)

		// Submission is attributed to the caller.
		v1.POST("/quiz/submit", StudentIdentityMiddleware(), hm.quizHandler.SubmitQuiz)
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "quiz-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
