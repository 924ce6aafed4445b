package service

import (
	"errors"

	"github.com/mtolzdor/schedule-app/internal/config"
	"github.com/mtolzdor/schedule-app/internal/db"
	"github.com/mtolzdor/schedule-app/internal/repository"
	"github.com/mtolzdor/schedule-app/internal/socket"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth  AuthService
	User  UserService
	Group GroupService
}

type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Cache       *db.RedisDB
	Broadcaster *socket.Broadcaster
}

func NewServices(deps *ServiceDeps) *Services {
	return &Services{
		Auth:  NewAuthService(deps.Config, deps.Repos.UserRepo),
		User:  NewUserService(deps.Repos.UserRepo, deps.Repos.ShiftRepo),
		Group: NewGroupService(deps.Repos.GroupRepo, deps.Repos.UserRepo, deps.Repos.ShiftRepo, deps.Cache, deps.Broadcaster),
	}
}
