package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mtolzdor/schedule-app/internal/models"
	"github.com/mtolzdor/schedule-app/internal/repository"
	"github.com/mtolzdor/schedule-app/internal/service"
)

// stubGroupService lets each test pin the service outcome without a store.
type stubGroupService struct {
	group  *repository.Group
	member *repository.GroupMember
	shift  *repository.Shift
	shifts []*repository.Shift
	role   string
	err    error
}

func (s *stubGroupService) CreateGroup(ctx context.Context, requesterID, name, email string) (*repository.Group, error) {
	return s.group, s.err
}

func (s *stubGroupService) GetGroup(ctx context.Context, groupID string) (*repository.Group, error) {
	return s.group, s.err
}

func (s *stubGroupService) AddMember(ctx context.Context, requesterID, groupID, targetUserID string) (*repository.GroupMember, error) {
	return s.member, s.err
}

func (s *stubGroupService) CreateShift(ctx context.Context, requesterID, groupID string, startDate, endDate time.Time) (*repository.Shift, error) {
	return s.shift, s.err
}

func (s *stubGroupService) AssignShift(ctx context.Context, requesterID, groupID, shiftID, userID string) (*repository.Shift, error) {
	return s.shift, s.err
}

func (s *stubGroupService) CheckPermission(ctx context.Context, requesterID, groupID string) (string, error) {
	return s.role, s.err
}

func (s *stubGroupService) GetShiftsForGroup(ctx context.Context, groupID string) ([]*repository.Shift, error) {
	return s.shifts, s.err
}

func (s *stubGroupService) GetGroupUsers(ctx context.Context, groupID string) ([]*repository.User, error) {
	return nil, s.err
}

func (s *stubGroupService) GetUserGroups(ctx context.Context, userID string) ([]*repository.GroupMember, error) {
	return nil, s.err
}

func newGroupRouter(svc service.GroupService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &GroupHandler{groupService: svc}

	r := gin.New()
	// Stands in for the auth middleware
	r.Use(func(c *gin.Context) { c.Set("userID", "requester-1") })

	r.POST("/groups", h.Create)
	r.POST("/groups/:id/members", h.AddMember)
	r.GET("/groups/:id/permission", h.CheckPermission)
	r.POST("/groups/:id/shifts", h.CreateShift)
	r.POST("/groups/:id/shifts/:shiftId/assignees", h.AssignShift)
	r.GET("/groups/:id/calendar", h.GetCalendar)
	return r
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound},
		{"conflict", service.ErrConflict, http.StatusConflict},
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest},
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newGroupRouter(&stubGroupService{err: tt.err})

			body := strings.NewReader(`{"userId":"target-1"}`)
			req := httptest.NewRequest(http.MethodPost, "/groups/g1/members", body)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestCheckPermissionResponse(t *testing.T) {
	t.Run("member role", func(t *testing.T) {
		r := newGroupRouter(&stubGroupService{role: "ADMIN"})

		req := httptest.NewRequest(http.MethodGet, "/groups/g1/permission", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var resp models.PermissionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Role == nil || *resp.Role != "ADMIN" {
			t.Errorf("role = %v, want ADMIN", resp.Role)
		}
	})

	t.Run("non-member gets null role", func(t *testing.T) {
		r := newGroupRouter(&stubGroupService{role: ""})

		req := httptest.NewRequest(http.MethodGet, "/groups/g1/permission", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"role":null`) {
			t.Errorf("expected null role, got %s", w.Body.String())
		}
	})
}

func TestCreateShiftValidation(t *testing.T) {
	r := newGroupRouter(&stubGroupService{})

	t.Run("missing dates rejected by binding", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/groups/g1/shifts", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestGetCalendar(t *testing.T) {
	// Shift spanning March 5 22:00 through March 7 06:00
	shift := &repository.Shift{
		ID:        "s1",
		GroupID:   "g1",
		StartDate: time.Date(2024, time.March, 5, 22, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.March, 7, 6, 0, 0, 0, time.UTC),
	}
	r := newGroupRouter(&stubGroupService{shifts: []*repository.Shift{shift}})

	t.Run("month view places shift on its start day only", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/groups/g1/calendar?view=month&date=2024-03-15", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d (body: %s)", w.Code, w.Body.String())
		}

		var resp models.CalendarResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Start != "2024-03-01" || resp.End != "2024-03-31" {
			t.Errorf("range = %s..%s", resp.Start, resp.End)
		}
		if len(resp.Cells) != 31 {
			t.Fatalf("expected 31 cells, got %d", len(resp.Cells))
		}
		for _, cell := range resp.Cells {
			want := 0
			if cell.Date == "2024-03-05" {
				want = 1
			}
			if len(cell.Shifts) != want {
				t.Errorf("%s: %d shifts, want %d", cell.Date, len(cell.Shifts), want)
			}
		}
	})

	t.Run("week view runs sunday through saturday", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/groups/g1/calendar?view=week&date=2024-03-05", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}

		var resp models.CalendarResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Start != "2024-03-03" || resp.End != "2024-03-09" {
			t.Errorf("range = %s..%s, want 2024-03-03..2024-03-09", resp.Start, resp.End)
		}
		if len(resp.Cells) != 7 {
			t.Errorf("expected 7 cells, got %d", len(resp.Cells))
		}
		if len(resp.Cells) == 7 && (resp.Cells[0].Column != 0 || resp.Cells[6].Column != 6) {
			t.Errorf("columns = %d..%d, want 0..6", resp.Cells[0].Column, resp.Cells[6].Column)
		}
	})

	t.Run("invalid view", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/groups/g1/calendar?view=year", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/groups/g1/calendar?date=03-15-2024", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}
