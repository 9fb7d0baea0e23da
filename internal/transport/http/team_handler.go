package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campus-club-service/internal/app"
	"campus-club-service/internal/domain"
)

type TeamHandler struct {
	service  *app.TeamService
	students app.StudentDirectory
}

func NewTeamHandler(service *app.TeamService, students app.StudentDirectory) *TeamHandler {
	return &TeamHandler{service: service, students: students}
}

type createTeamRequest struct {
	Name       string   `json:"name" binding:"required,max=80"`
	InviteeIDs []string `json:"inviteeIds"`
}

type respondRequest struct {
	Decision domain.MemberStatus `json:"decision" binding:"required,oneof=approved rejected"`
}

// callerID reads the caller identity; it aborts with 401 when absent.
func callerID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.GetHeader(StudentIDHeader))
	if id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "missing " + StudentIDHeader + " header"})
		return "", false
	}
	return id, true
}

// Create registers a team led by the caller.
func (h *TeamHandler) Create(c *gin.Context) {
	leaderID, ok := callerID(c)
	if !ok {
		return
	}
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	leader, err := h.students.FindStudentByID(c.Request.Context(), leaderID)
	if errors.Is(err, domain.ErrStudentNotFound) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "unknown student"})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}

	team, err := h.service.CreateTeam(c.Request.Context(), req.Name, leader, req.InviteeIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

func (h *TeamHandler) Get(c *gin.Context) {
	team, err := h.service.GetTeam(c.Request.Context(), c.Param("teamID"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// Respond records the caller's answer to an invitation.
func (h *TeamHandler) Respond(c *gin.Context) {
	studentID, ok := callerID(c)
	if !ok {
		return
	}
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}
	team, err := h.service.RespondToInvitation(c.Request.Context(), c.Param("teamID"), studentID, req.Decision)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) Leave(c *gin.Context) {
	studentID, ok := callerID(c)
	if !ok {
		return
	}
	team, err := h.service.LeaveTeam(c.Request.Context(), c.Param("teamID"), studentID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) Disband(c *gin.Context) {
	requesterID, ok := callerID(c)
	if !ok {
		return
	}
	team, err := h.service.DisbandTeam(c.Request.Context(), c.Param("teamID"), requesterID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) RemoveMember(c *gin.Context) {
	requesterID, ok := callerID(c)
	if !ok {
		return
	}
	team, err := h.service.RemoveMember(c.Request.Context(), c.Param("teamID"), requesterID, c.Param("memberID"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}
