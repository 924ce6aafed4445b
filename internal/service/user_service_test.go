package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mtolzdor/schedule-app/internal/repository"
	"github.com/mtolzdor/schedule-app/internal/types"
)

func TestUserServiceGetByEmail(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, newFakeShiftRepo())

	u := &repository.User{Email: "Ana@Example.com", Password: "x", Status: types.UserOnline}
	userRepo.Create(ctx, u)

	t.Run("case insensitive match", func(t *testing.T) {
		found, err := svc.GetByEmail(ctx, "ana@example.com")
		if err != nil {
			t.Fatalf("GetByEmail: %v", err)
		}
		if found.ID != u.ID {
			t.Errorf("found %s, want %s", found.ID, u.ID)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		if _, err := svc.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserServiceGetMe(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	shiftRepo := newFakeShiftRepo()
	svc := NewUserService(userRepo, shiftRepo)

	u := &repository.User{Email: "ana@example.com", Password: "x", Status: types.UserOnline}
	userRepo.Create(ctx, u)

	start := time.Date(2024, 3, 5, 22, 0, 0, 0, time.UTC)
	shift := &repository.Shift{GroupID: "group-1", StartDate: start, EndDate: start.Add(8 * time.Hour)}
	shiftRepo.Create(ctx, shift)
	shiftRepo.AttachUser(ctx, shift.ID, u.ID)

	user, shifts, err := svc.GetMe(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if user.ID != u.ID {
		t.Errorf("user = %s, want %s", user.ID, u.ID)
	}
	if len(shifts) != 1 || shifts[0].ID != shift.ID {
		t.Errorf("shifts = %v, want [%s]", shifts, shift.ID)
	}
}

func TestUserServiceUpdate(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (UserService, *fakeUserRepo, *repository.User) {
		userRepo := newFakeUserRepo()
		svc := NewUserService(userRepo, newFakeShiftRepo())
		u := &repository.User{Email: "ana@example.com", Password: "x", Status: types.UserOnline}
		userRepo.Create(ctx, u)
		return svc, userRepo, u
	}

	t.Run("update name", func(t *testing.T) {
		svc, _, u := setup(t)
		name := "Ana Kovac"

		updated, err := svc.Update(ctx, u.ID, &name, nil)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if updated.Name == nil || *updated.Name != name {
			t.Errorf("name not updated: %v", updated.Name)
		}
	})

	t.Run("empty email rejected", func(t *testing.T) {
		svc, _, u := setup(t)
		empty := ""

		if _, err := svc.Update(ctx, u.ID, nil, &empty); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("taken email conflicts", func(t *testing.T) {
		svc, userRepo, u := setup(t)
		other := &repository.User{Email: "ben@example.com", Password: "x", Status: types.UserOnline}
		userRepo.Create(ctx, other)
		taken := "ben@example.com"

		if _, err := svc.Update(ctx, u.ID, nil, &taken); !errors.Is(err, ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := setup(t)
		name := "Ghost"

		if _, err := svc.Update(ctx, "missing", &name, nil); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}
