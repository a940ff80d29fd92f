package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nahomatnafu/dj-event-management/internal/middleware"
	"github.com/Nahomatnafu/dj-event-management/internal/service"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token: result.Token,
		User:  newUserResponse(result.Account),
	})
}

func (h HandlerSet) Session(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": newUserResponse(session.Account),
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	if err := h.sessions.Logout(c.Request.Context(), session); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
