package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mtolzdor/schedule-app/internal/api/middleware"
	"github.com/mtolzdor/schedule-app/internal/calendar"
	"github.com/mtolzdor/schedule-app/internal/models"
	"github.com/mtolzdor/schedule-app/internal/repository"
	"github.com/mtolzdor/schedule-app/internal/service"
	"github.com/mtolzdor/schedule-app/internal/types"
)

// GroupHandler handles group, membership and shift HTTP requests
type GroupHandler struct {
	groupService service.GroupService
}

// Create creates a new group; the creator becomes its sole admin
func (h *GroupHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), userID, req.Name, req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toGroupResponse(group))
}

// Get retrieves a group with its member list
func (h *GroupHandler) Get(c *gin.Context) {
	groupID := c.Param("id")

	group, err := h.groupService.GetGroup(c.Request.Context(), groupID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toGroupResponse(group))
}

// ListMine lists the groups the authenticated user belongs to, with role
func (h *GroupHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	memberships, err := h.groupService.GetUserGroups(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	out := make([]models.UserGroupResponse, 0, len(memberships))
	for _, m := range memberships {
		resp := models.UserGroupResponse{
			GroupID:  m.GroupID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		}
		if m.Group != nil {
			resp.Group = toGroupResponse(m.Group)
		}
		out = append(out, resp)
	}

	c.JSON(http.StatusOK, out)
}

// AddMember adds an existing user to the group with role USER
func (h *GroupHandler) AddMember(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	groupID := c.Param("id")

	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.groupService.AddMember(c.Request.Context(), userID, groupID, req.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMemberResponse(member))
}

// ListMembers lists all users assigned to the group
func (h *GroupHandler) ListMembers(c *gin.Context) {
	groupID := c.Param("id")

	users, err := h.groupService.GetGroupUsers(c.Request.Context(), groupID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	out := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}

	c.JSON(http.StatusOK, out)
}

// CheckPermission returns the requester's role on the group, null when
// not a member
func (h *GroupHandler) CheckPermission(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	groupID := c.Param("id")

	role, err := h.groupService.CheckPermission(c.Request.Context(), userID, groupID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := models.PermissionResponse{}
	if role != "" {
		resp.Role = &role
	}

	c.JSON(http.StatusOK, resp)
}

// CreateShift creates a shift owned by the group
func (h *GroupHandler) CreateShift(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	groupID := c.Param("id")

	var req models.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shift, err := h.groupService.CreateShift(c.Request.Context(), userID, groupID, req.StartDate, req.EndDate)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toShiftResponse(shift))
}

// ListShifts lists all shifts owned by the group, no server-side date
// filtering
func (h *GroupHandler) ListShifts(c *gin.Context) {
	groupID := c.Param("id")

	shifts, err := h.groupService.GetShiftsForGroup(c.Request.Context(), groupID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toShiftResponses(shifts))
}

// AssignShift attaches a group member to a shift
func (h *GroupHandler) AssignShift(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	groupID := c.Param("id")
	shiftID := c.Param("shiftId")

	var req models.AssignShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shift, err := h.groupService.AssignShift(c.Request.Context(), userID, groupID, shiftID, req.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toShiftResponse(shift))
}

// GetCalendar projects the group's shifts onto a month or week view
func (h *GroupHandler) GetCalendar(c *gin.Context) {
	groupID := c.Param("id")

	view, date, err := parseCalendarQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shifts, err := h.groupService.GetShiftsForGroup(c.Request.Context(), groupID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildCalendar(view, date, shifts))
}

// ============================================
// Calendar helpers
// ============================================

const dateLayout = "2006-01-02"

func parseCalendarQuery(c *gin.Context) (string, time.Time, error) {
	view := c.DefaultQuery("view", types.ViewMonth)
	if !types.IsValidView(view) {
		return "", time.Time{}, errors.New("view must be month or week")
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return "", time.Time{}, errors.New("date must be formatted YYYY-MM-DD")
		}
		date = parsed
	}

	return view, date, nil
}

func buildCalendar(view string, date time.Time, shifts []*repository.Shift) models.CalendarResponse {
	var start, end time.Time
	if view == types.ViewWeek {
		start, end = calendar.Week(date)
	} else {
		start, end = calendar.Month(date)
	}

	cells := calendar.Project(calendar.Days(start, end), shifts)

	resp := models.CalendarResponse{
		View:  view,
		Start: start.Format(dateLayout),
		End:   end.Format(dateLayout),
		Cells: make([]models.CalendarCellResponse, len(cells)),
	}
	for i, cell := range cells {
		resp.Cells[i] = models.CalendarCellResponse{
			Date:   cell.Date.Format(dateLayout),
			Column: cell.Column(),
			Shifts: toShiftResponses(cell.Shifts),
		}
	}
	return resp
}
