package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mtolzdor/schedule-app/internal/models"
	"github.com/mtolzdor/schedule-app/internal/repository"
	"github.com/mtolzdor/schedule-app/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth  *AuthHandler
	User  *UserHandler
	Group *GroupHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:  &AuthHandler{authService: services.Auth},
		User:  &UserHandler{userService: services.User},
		Group: &GroupHandler{groupService: services.Group},
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(c *gin.Context, err error) {
	switch err {
	case service.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case service.ErrUserNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case service.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case service.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case service.ErrConflict:
		c.JSON(http.StatusConflict, gin.H{"error": "Resource already exists"})
	case service.ErrInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case service.ErrInvalidToken:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

func toShiftResponse(s *repository.Shift) models.ShiftResponse {
	return models.ShiftResponse{
		ID:          s.ID,
		GroupID:     s.GroupID,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		AssigneeIDs: safeStringSlice(s.AssigneeIDs),
	}
}

func toShiftResponses(shifts []*repository.Shift) []models.ShiftResponse {
	out := make([]models.ShiftResponse, len(shifts))
	for i, s := range shifts {
		out[i] = toShiftResponse(s)
	}
	return out
}

func toMemberResponse(m *repository.GroupMember) models.GroupMemberResponse {
	resp := models.GroupMemberResponse{
		ID:       m.ID,
		GroupID:  m.GroupID,
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
	if m.User != nil {
		user := toUserResponse(m.User)
		resp.User = &user
	}
	return resp
}

func toGroupResponse(g *repository.Group) models.GroupResponse {
	resp := models.GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Email:     g.Email,
		CreatedAt: g.CreatedAt,
	}
	for _, m := range g.Members {
		resp.Members = append(resp.Members, toMemberResponse(m))
	}
	return resp
}

// Helper to ensure nil slices become empty slices
func safeStringSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
