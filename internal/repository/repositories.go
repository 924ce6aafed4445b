package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	UserRepo  UserRepository
	GroupRepo GroupRepository
	ShiftRepo ShiftRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:  NewUserRepository(pool),
		GroupRepo: NewGroupRepository(pool),
		ShiftRepo: NewShiftRepository(pool),
	}
}
