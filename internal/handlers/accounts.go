package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nahomatnafu/dj-event-management/internal/service"
)

func (h HandlerSet) ListAccounts(c *gin.Context) {
	accounts, err := h.accounts.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	users := make([]userResponse, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, newUserResponse(a))
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
	})
}

type createAccountRequest struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	Name            string  `json:"name"`
	Role            string  `json:"role"`
	ServiceCategory *string `json:"serviceCategory"`
	Status          string  `json:"status"`
}

func (h HandlerSet) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	input := service.CreateAccountInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		Status:   req.Status,
	}
	if req.ServiceCategory != nil {
		input.ServiceCategory = *req.ServiceCategory
	}

	account, err := h.accounts.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": newUserResponse(account),
	})
}

// nullableString tells an absent JSON field apart from an explicit null.
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

type updateAccountRequest struct {
	Email           *string        `json:"email"`
	Password        *string        `json:"password"`
	Name            *string        `json:"name"`
	Role            *string        `json:"role"`
	ServiceCategory nullableString `json:"serviceCategory"`
	Status          *string        `json:"status"`
}

func (h HandlerSet) UpdateAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	input := service.UpdateAccountInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		Status:   req.Status,
	}
	if req.ServiceCategory.Set {
		if req.ServiceCategory.Value == nil || *req.ServiceCategory.Value == "" {
			input.ClearServiceCategory = true
		} else {
			input.ServiceCategory = req.ServiceCategory.Value
		}
	}

	account, err := h.accounts.Update(c.Request.Context(), id, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": newUserResponse(account),
	})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
