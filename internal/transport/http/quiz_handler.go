package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus-club-service/internal/app"
	"campus-club-service/internal/domain"
)

// maxLeaderboardLimit caps the limit query parameter.
const maxLeaderboardLimit = 100

type QuizHandler struct {
	service *app.QuizService
}

func NewQuizHandler(service *app.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

type responsePayload struct {
	QuestionID          string  `json:"questionId" binding:"required"`
	SelectedAnswerIndex *int    `json:"selectedAnswerIndex" binding:"required,min=0,max=3"`
	ResponseTimeSeconds float64 `json:"responseTimeSeconds" binding:"gte=0"`
}

type attemptRequest struct {
	ParticipantName string            `json:"participantName" binding:"required,max=100"`
	Responses       []responsePayload `json:"responses" binding:"required,dive"`
}

// GetQuiz serves a quiz without its answer key.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.service.GetPublicQuiz(c.Request.Context(), c.Param("quizID"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// SubmitAttempt scores and stores one attempt.
func (h *QuizHandler) SubmitAttempt(c *gin.Context) {
	var req attemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	responses := make([]domain.ResponseSubmission, 0, len(req.Responses))
	for _, r := range req.Responses {
		responses = append(responses, domain.ResponseSubmission{
			QuestionID:          r.QuestionID,
			SelectedAnswerIndex: *r.SelectedAnswerIndex,
			ResponseTimeSeconds: r.ResponseTimeSeconds,
		})
	}

	attempt, err := h.service.SubmitAttempt(c.Request.Context(), c.Param("quizID"), req.ParticipantName, responses)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}

// Leaderboard lists the best attempts of a quiz.
func (h *QuizHandler) Leaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			abortBadRequest(c, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLeaderboardLimit)
	}

	lb, err := h.service.Leaderboard(c.Request.Context(), c.Param("quizID"), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, lb)
}
