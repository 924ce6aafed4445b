package service

import (
	"context"

	"github.com/mtolzdor/schedule-app/internal/repository"
)

// ============================================
// User Service
// ============================================

type UserService interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
	// GetByEmail is the exact-match lookup behind the member search box.
	// A missing user is a normal outcome, reported as ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*repository.User, error)
	// GetMe returns the user together with their assigned shifts.
	GetMe(ctx context.Context, id string) (*repository.User, []*repository.Shift, error)
	Update(ctx context.Context, id string, name, email *string) (*repository.User, error)
}

type userService struct {
	userRepo  repository.UserRepository
	shiftRepo repository.ShiftRepository
}

func NewUserService(userRepo repository.UserRepository, shiftRepo repository.ShiftRepository) UserService {
	return &userService{userRepo: userRepo, shiftRepo: shiftRepo}
}

func (s *userService) GetByID(ctx context.Context, id string) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) GetMe(ctx context.Context, id string) (*repository.User, []*repository.Shift, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	shifts, err := s.shiftRepo.FindByUserID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return user, shifts, nil
}

func (s *userService) Update(ctx context.Context, id string, name, email *string) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}

	if name != nil {
		user.Name = name
	}
	if email != nil {
		if *email == "" {
			return nil, ErrInvalidInput
		}
		existing, _ := s.userRepo.FindByEmail(ctx, *email)
		if existing != nil && existing.ID != id {
			return nil, ErrConflict
		}
		user.Email = *email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
