package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Group represents a named collection of users sharing a shift schedule
type Group struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Members   []*GroupMember
}

// GroupMember binds a user to a group with a role.
// At most one row exists per (user_id, group_id) pair.
type GroupMember struct {
	ID       string
	GroupID  string
	UserID   string
	Role     string
	JoinedAt time.Time
	User     *User
	Group    *Group
}

// GroupRepository defines group and membership data operations
type GroupRepository interface {
	// CreateWithAdmin inserts the group and the creator's ADMIN membership
	// in a single transaction.
	CreateWithAdmin(ctx context.Context, group *Group, creatorID string) error
	FindByID(ctx context.Context, id string) (*Group, error)

	AddMember(ctx context.Context, member *GroupMember) error
	FindMember(ctx context.Context, groupID, userID string) (*GroupMember, error)
	FindMembers(ctx context.Context, groupID string) ([]*GroupMember, error)
	FindMembershipsByUser(ctx context.Context, userID string) ([]*GroupMember, error)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint error.
// Concurrent duplicate membership inserts surface through here.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type pgGroupRepository struct {
	pool *pgxpool.Pool
}

func NewGroupRepository(pool *pgxpool.Pool) GroupRepository {
	return &pgGroupRepository{pool: pool}
}

func (r *pgGroupRepository) CreateWithAdmin(ctx context.Context, group *Group, creatorID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO groups (name, email)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRow(ctx, query, group.Name, group.Email).
		Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt); err != nil {
		return err
	}

	memberQuery := `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1, $2, 'ADMIN')
	`
	if _, err := tx.Exec(ctx, memberQuery, group.ID, creatorID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *pgGroupRepository) FindByID(ctx context.Context, id string) (*Group, error) {
	query := `
		SELECT id, name, email, created_at, updated_at
		FROM groups WHERE id = $1
	`
	group := &Group{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&group.ID, &group.Name, &group.Email, &group.CreatedAt, &group.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (r *pgGroupRepository) AddMember(ctx context.Context, member *GroupMember) error {
	query := `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at
	`
	return r.pool.QueryRow(ctx, query, member.GroupID, member.UserID, member.Role).
		Scan(&member.ID, &member.JoinedAt)
}

func (r *pgGroupRepository) FindMember(ctx context.Context, groupID, userID string) (*GroupMember, error) {
	query := `
		SELECT id, group_id, user_id, role, joined_at
		FROM group_members WHERE group_id = $1 AND user_id = $2
	`
	member := &GroupMember{}
	err := r.pool.QueryRow(ctx, query, groupID, userID).Scan(
		&member.ID, &member.GroupID, &member.UserID, &member.Role, &member.JoinedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (r *pgGroupRepository) FindMembers(ctx context.Context, groupID string) ([]*GroupMember, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.role, gm.joined_at,
		       u.id, u.email, u.name, u.status
		FROM group_members gm
		INNER JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at
	`
	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*GroupMember
	for rows.Next() {
		member := &GroupMember{User: &User{}}
		if err := rows.Scan(
			&member.ID, &member.GroupID, &member.UserID, &member.Role, &member.JoinedAt,
			&member.User.ID, &member.User.Email, &member.User.Name, &member.User.Status,
		); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func (r *pgGroupRepository) FindMembershipsByUser(ctx context.Context, userID string) ([]*GroupMember, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.role, gm.joined_at,
		       g.id, g.name, g.email, g.created_at, g.updated_at
		FROM group_members gm
		INNER JOIN groups g ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.name
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []*GroupMember
	for rows.Next() {
		member := &GroupMember{Group: &Group{}}
		if err := rows.Scan(
			&member.ID, &member.GroupID, &member.UserID, &member.Role, &member.JoinedAt,
			&member.Group.ID, &member.Group.Name, &member.Group.Email,
			&member.Group.CreatedAt, &member.Group.UpdatedAt,
		); err != nil {
			return nil, err
		}
		memberships = append(memberships, member)
	}
	return memberships, nil
}
