package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-club-service/internal/app"
)

// StudentIDHeader carries the caller's student id, set by the auth proxy in front of the service.
const StudentIDHeader = "X-Student-ID"

// NewRouter wires every handler onto a gin engine.
func NewRouter(quizzes *app.QuizService, teams *app.TeamService, students app.StudentDirectory) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	quizHandler := NewQuizHandler(quizzes)
	wsHandler := NewWSHandler(quizzes)
	teamHandler := NewTeamHandler(teams, students)

	api := r.Group("/api")
	api.GET("/quizzes/:quizID", quizHandler.GetQuiz)
	api.POST("/quizzes/:quizID/attempts", quizHandler.SubmitAttempt)
	api.GET("/quizzes/:quizID/leaderboard", quizHandler.Leaderboard)

	api.POST("/teams", teamHandler.Create)
	api.GET("/teams/:teamID", teamHandler.Get)
	api.POST("/teams/:teamID/respond", teamHandler.Respond)
	api.POST("/teams/:teamID/leave", teamHandler.Leave)
	api.POST("/teams/:teamID/disband", teamHandler.Disband)
	api.DELETE("/teams/:teamID/members/:memberID", teamHandler.RemoveMember)

	r.GET("/ws/quizzes/:quizID/leaderboard", wsHandler.ServeWS)
	return r
}
