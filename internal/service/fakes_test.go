package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mtolzdor/schedule-app/internal/repository"
	"github.com/mtolzdor/schedule-app/internal/types"
)

// In-memory repository fakes backing the service tests. They implement the
// same contracts as the Postgres repositories, including the nil-on-missing
// convention and unique membership per (user, group).

type fakeUserRepo struct {
	nextID int
	users  map[string]*repository.User
	tokens map[string]*repository.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*repository.User),
		tokens: make(map[string]*repository.RefreshToken),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *repository.User) error {
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*repository.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByGroupID(ctx context.Context, groupID string) ([]*repository.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *repository.User) error {
	user.UpdatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateLastActive(ctx context.Context, userID string) error {
	if u, ok := r.users[userID]; ok {
		now := time.Now()
		u.LastActiveAt = &now
	}
	return nil
}

func (r *fakeUserRepo) UpdateStatusForInactive(ctx context.Context, inactiveDuration time.Duration) error {
	return nil
}

func (r *fakeUserRepo) SaveRefreshToken(ctx context.Context, token *repository.RefreshToken) error {
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(ctx context.Context, token string) (*repository.RefreshToken, error) {
	return r.tokens[token], nil
}

func (r *fakeUserRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *fakeUserRepo) DeleteExpiredRefreshTokens(ctx context.Context) (int, error) {
	deleted := 0
	for k, t := range r.tokens {
		if time.Now().After(t.ExpiresAt) {
			delete(r.tokens, k)
			deleted++
		}
	}
	return deleted, nil
}

type fakeGroupRepo struct {
	nextID  int
	groups  map[string]*repository.Group
	members []*repository.GroupMember

	// When set, AddMember fails with this error once. Used to simulate
	// losing a concurrent-insert race against the unique constraint.
	addMemberErr error
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[string]*repository.Group)}
}

func (r *fakeGroupRepo) CreateWithAdmin(ctx context.Context, group *repository.Group, creatorID string) error {
	r.nextID++
	group.ID = fmt.Sprintf("group-%d", r.nextID)
	group.CreatedAt = time.Now()
	group.UpdatedAt = group.CreatedAt
	r.groups[group.ID] = group
	r.members = append(r.members, &repository.GroupMember{
		ID:       fmt.Sprintf("member-%d", len(r.members)+1),
		GroupID:  group.ID,
		UserID:   creatorID,
		Role:     types.RoleAdmin,
		JoinedAt: time.Now(),
	})
	return nil
}

func (r *fakeGroupRepo) FindByID(ctx context.Context, id string) (*repository.Group, error) {
	return r.groups[id], nil
}

func (r *fakeGroupRepo) AddMember(ctx context.Context, member *repository.GroupMember) error {
	if r.addMemberErr != nil {
		err := r.addMemberErr
		r.addMemberErr = nil
		return err
	}
	member.ID = fmt.Sprintf("member-%d", len(r.members)+1)
	member.JoinedAt = time.Now()
	r.members = append(r.members, member)
	return nil
}

func (r *fakeGroupRepo) FindMember(ctx context.Context, groupID, userID string) (*repository.GroupMember, error) {
	for _, m := range r.members {
		if m.GroupID == groupID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeGroupRepo) FindMembers(ctx context.Context, groupID string) ([]*repository.GroupMember, error) {
	var out []*repository.GroupMember
	for _, m := range r.members {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) FindMembershipsByUser(ctx context.Context, userID string) ([]*repository.GroupMember, error) {
	var out []*repository.GroupMember
	for _, m := range r.members {
		if m.UserID == userID {
			cp := *m
			cp.Group = r.groups[m.GroupID]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeShiftRepo struct {
	nextID    int
	shifts    map[string]*repository.Shift
	assignees map[string]map[string]bool
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{
		shifts:    make(map[string]*repository.Shift),
		assignees: make(map[string]map[string]bool),
	}
}

func (r *fakeShiftRepo) Create(ctx context.Context, shift *repository.Shift) error {
	r.nextID++
	shift.ID = fmt.Sprintf("shift-%d", r.nextID)
	shift.CreatedAt = time.Now()
	r.shifts[shift.ID] = shift
	return nil
}

func (r *fakeShiftRepo) FindByID(ctx context.Context, id string) (*repository.Shift, error) {
	return r.shifts[id], nil
}

func (r *fakeShiftRepo) FindByGroupID(ctx context.Context, groupID string) ([]*repository.Shift, error) {
	var out []*repository.Shift
	for _, s := range r.shifts {
		if s.GroupID == groupID {
			cp := *s
			cp.AssigneeIDs, _ = r.FindAssigneeIDs(ctx, s.ID)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeShiftRepo) FindByUserID(ctx context.Context, userID string) ([]*repository.Shift, error) {
	var out []*repository.Shift
	for id, s := range r.shifts {
		if r.assignees[id][userID] {
			cp := *s
			cp.AssigneeIDs, _ = r.FindAssigneeIDs(ctx, id)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeShiftRepo) AttachUser(ctx context.Context, shiftID, userID string) error {
	if r.assignees[shiftID] == nil {
		r.assignees[shiftID] = make(map[string]bool)
	}
	r.assignees[shiftID][userID] = true
	return nil
}

func (r *fakeShiftRepo) FindAssigneeIDs(ctx context.Context, shiftID string) ([]string, error) {
	var out []string
	for id := range r.assignees[shiftID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
