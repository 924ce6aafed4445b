package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mtolzdor/schedule-app/internal/db"
	"github.com/mtolzdor/schedule-app/internal/repository"
	"github.com/mtolzdor/schedule-app/internal/socket"
	"github.com/mtolzdor/schedule-app/internal/types"
)

// ============================================
// Group Service
// ============================================

// GroupService is the scheduling rule layer. Every mutating operation takes
// an explicit requester ID; admin-gated operations check the requester's
// membership role before touching the store.
type GroupService interface {
	CreateGroup(ctx context.Context, requesterID, name, email string) (*repository.Group, error)
	GetGroup(ctx context.Context, groupID string) (*repository.Group, error)
	AddMember(ctx context.Context, requesterID, groupID, targetUserID string) (*repository.GroupMember, error)
	CreateShift(ctx context.Context, requesterID, groupID string, startDate, endDate time.Time) (*repository.Shift, error)
	AssignShift(ctx context.Context, requesterID, groupID, shiftID, userID string) (*repository.Shift, error)
	// CheckPermission returns the requester's role on the group, or "" when
	// no membership exists. Never mutates.
	CheckPermission(ctx context.Context, requesterID, groupID string) (string, error)
	GetShiftsForGroup(ctx context.Context, groupID string) ([]*repository.Shift, error)
	GetGroupUsers(ctx context.Context, groupID string) ([]*repository.User, error)
	GetUserGroups(ctx context.Context, userID string) ([]*repository.GroupMember, error)
}

type groupService struct {
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
	shiftRepo   repository.ShiftRepository
	cache       *db.RedisDB
	broadcaster *socket.Broadcaster
}

func NewGroupService(
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	shiftRepo repository.ShiftRepository,
	cache *db.RedisDB,
	broadcaster *socket.Broadcaster,
) GroupService {
	return &groupService{
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		shiftRepo:   shiftRepo,
		cache:       cache,
		broadcaster: broadcaster,
	}
}

func (s *groupService) CreateGroup(ctx context.Context, requesterID, name, email string) (*repository.Group, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return nil, ErrInvalidInput
	}

	group := &repository.Group{
		Name:  name,
		Email: email,
	}

	// Group row and creator's ADMIN membership land in one transaction:
	// a group can never exist without an admin.
	if err := s.groupRepo.CreateWithAdmin(ctx, group, requesterID); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastGroupCreated(requesterID, map[string]interface{}{
			"id":    group.ID,
			"name":  group.Name,
			"email": group.Email,
		})
	}

	return group, nil
}

func (s *groupService) GetGroup(ctx context.Context, groupID string) (*repository.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrNotFound
	}

	members, _ := s.groupRepo.FindMembers(ctx, groupID)
	group.Members = members

	return group, nil
}

func (s *groupService) AddMember(ctx context.Context, requesterID, groupID, targetUserID string) (*repository.GroupMember, error) {
	if err := s.requireAdmin(ctx, requesterID, groupID); err != nil {
		return nil, err
	}

	target, err := s.userRepo.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	existing, _ := s.groupRepo.FindMember(ctx, groupID, targetUserID)
	if existing != nil {
		return nil, ErrConflict
	}

	member := &repository.GroupMember{
		GroupID: groupID,
		UserID:  targetUserID,
		Role:    types.RoleUser,
	}
	if err := s.groupRepo.AddMember(ctx, member); err != nil {
		// Concurrent insert of the same (user, group) pair loses the race
		// against the unique constraint.
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	member.User = target

	s.invalidateRole(ctx, groupID, targetUserID)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMemberAdded(groupID, map[string]interface{}{
			"groupId": groupID,
			"userId":  targetUserID,
			"role":    member.Role,
		}, requesterID)
	}

	return member, nil
}

func (s *groupService) CreateShift(ctx context.Context, requesterID, groupID string, startDate, endDate time.Time) (*repository.Shift, error) {
	if startDate.IsZero() || endDate.IsZero() || !startDate.Before(endDate) {
		return nil, ErrInvalidInput
	}

	if err := s.requireAdmin(ctx, requesterID, groupID); err != nil {
		return nil, err
	}

	shift := &repository.Shift{
		GroupID:   groupID,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}

	s.invalidateShifts(ctx, groupID)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastShiftCreated(groupID, map[string]interface{}{
			"id":        shift.ID,
			"groupId":   shift.GroupID,
			"startDate": shift.StartDate,
			"endDate":   shift.EndDate,
		}, requesterID)
	}

	return shift, nil
}

func (s *groupService) AssignShift(ctx context.Context, requesterID, groupID, shiftID, userID string) (*repository.Shift, error) {
	if err := s.requireAdmin(ctx, requesterID, groupID); err != nil {
		return nil, err
	}

	shift, err := s.shiftRepo.FindByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	// A shift belonging to another group is invisible here
	if shift == nil || shift.GroupID != groupID {
		return nil, ErrNotFound
	}

	// Only group members may be assigned
	member, err := s.groupRepo.FindMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrForbidden
	}

	// Idempotent: re-assigning the same user is a no-op, not an error
	if err := s.shiftRepo.AttachUser(ctx, shiftID, userID); err != nil {
		return nil, err
	}

	assignees, err := s.shiftRepo.FindAssigneeIDs(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	shift.AssigneeIDs = assignees

	s.invalidateShifts(ctx, groupID)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastShiftAssigned(groupID, userID, map[string]interface{}{
			"id":        shift.ID,
			"groupId":   shift.GroupID,
			"startDate": shift.StartDate,
			"endDate":   shift.EndDate,
		}, requesterID)
	}

	return shift, nil
}

func (s *groupService) CheckPermission(ctx context.Context, requesterID, groupID string) (string, error) {
	if s.cache != nil {
		var role string
		if err := s.cache.GetCache(ctx, roleKey(groupID, requesterID), &role); err == nil {
			return role, nil
		}
	}

	member, err := s.groupRepo.FindMember(ctx, groupID, requesterID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", nil
	}

	if s.cache != nil {
		s.cache.SetCache(ctx, roleKey(groupID, requesterID), member.Role, 5*time.Minute)
	}

	return member.Role, nil
}

func (s *groupService) GetShiftsForGroup(ctx context.Context, groupID string) ([]*repository.Shift, error) {
	if s.cache != nil {
		var shifts []*repository.Shift
		if err := s.cache.GetCache(ctx, shiftsKey(groupID), &shifts); err == nil {
			return shifts, nil
		}
	}

	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrNotFound
	}

	shifts, err := s.shiftRepo.FindByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetCache(ctx, shiftsKey(groupID), shifts, time.Minute)
	}

	return shifts, nil
}

func (s *groupService) GetGroupUsers(ctx context.Context, groupID string) ([]*repository.User, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrNotFound
	}
	return s.userRepo.FindByGroupID(ctx, groupID)
}

func (s *groupService) GetUserGroups(ctx context.Context, userID string) ([]*repository.GroupMember, error) {
	return s.groupRepo.FindMembershipsByUser(ctx, userID)
}

// requireAdmin resolves the group and rejects requesters without an ADMIN
// membership on it.
func (s *groupService) requireAdmin(ctx context.Context, requesterID, groupID string) error {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrNotFound
	}

	role, err := s.CheckPermission(ctx, requesterID, groupID)
	if err != nil {
		return err
	}
	if role != types.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *groupService) invalidateRole(ctx context.Context, groupID, userID string) {
	if s.cache != nil {
		s.cache.DeleteCache(ctx, roleKey(groupID, userID))
	}
}

func (s *groupService) invalidateShifts(ctx context.Context, groupID string) {
	if s.cache != nil {
		s.cache.DeleteCache(ctx, shiftsKey(groupID))
	}
}

func roleKey(groupID, userID string) string {
	return fmt.Sprintf("role:%s:%s", groupID, userID)
}

func shiftsKey(groupID string) string {
	return fmt.Sprintf("shifts:%s", groupID)
}
