package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mtolzdor/schedule-app/internal/api/middleware"
	"github.com/mtolzdor/schedule-app/internal/models"
	"github.com/mtolzdor/schedule-app/internal/service"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService service.UserService
}

// GetCurrentUser returns the authenticated user with their assigned shifts
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	user, shifts, err := h.userService.GetMe(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MeResponse{
		User:   toUserResponse(user),
		Shifts: toShiftResponses(shifts),
	})
}

// UpdateCurrentUser updates the authenticated user's profile fields
func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), userID, req.Name, req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// FindByEmail looks up a user by exact email match. An absent user is a
// normal outcome surfaced as 404, for the "find member" search box.
func (h *UserHandler) FindByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter required"})
		return
	}

	user, err := h.userService.GetByEmail(c.Request.Context(), email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// GetMyCalendar projects the authenticated user's assigned shifts onto a
// month or week view
func (h *UserHandler) GetMyCalendar(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	view, date, err := parseCalendarQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, shifts, err := h.userService.GetMe(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildCalendar(view, date, shifts))
}
