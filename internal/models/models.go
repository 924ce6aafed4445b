package models

import "time"

// ============================================
// Auth DTOs
// ============================================

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// ============================================
// User DTOs
// ============================================

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
}

// MeResponse is the current user together with their assigned shifts
type MeResponse struct {
	User   UserResponse    `json:"user"`
	Shifts []ShiftResponse `json:"shifts"`
}

// ============================================
// Group DTOs
// ============================================

type CreateGroupRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type GroupResponse struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Email     string                `json:"email"`
	CreatedAt time.Time             `json:"createdAt"`
	Members   []GroupMemberResponse `json:"members,omitempty"`
}

type GroupMemberResponse struct {
	ID       string        `json:"id"`
	GroupID  string        `json:"groupId"`
	UserID   string        `json:"userId"`
	Role     string        `json:"role"`
	JoinedAt time.Time     `json:"joinedAt"`
	User     *UserResponse `json:"user,omitempty"`
}

// UserGroupResponse is one membership with its group, for the "my groups" list
type UserGroupResponse struct {
	GroupID  string        `json:"groupId"`
	Role     string        `json:"role"`
	JoinedAt time.Time     `json:"joinedAt"`
	Group    GroupResponse `json:"group"`
}

type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// PermissionResponse carries the requester's role, null when not a member
type PermissionResponse struct {
	Role *string `json:"role"`
}

// ============================================
// Shift DTOs
// ============================================

type CreateShiftRequest struct {
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

type AssignShiftRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type ShiftResponse struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"groupId"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	AssigneeIDs []string  `json:"assigneeIds"`
}

// ============================================
// Calendar DTOs
// ============================================

// CalendarCellResponse is one renderable day. Column is the day-of-week
// offset (0=Sunday..6=Saturday) for grid placement.
type CalendarCellResponse struct {
	Date   string          `json:"date"`
	Column int             `json:"column"`
	Shifts []ShiftResponse `json:"shifts"`
}

type CalendarResponse struct {
	View  string                 `json:"view"`
	Start string                 `json:"start"`
	End   string                 `json:"end"`
	Cells []CalendarCellResponse `json:"cells"`
}
