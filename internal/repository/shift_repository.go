package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Shift is a time interval owned by exactly one group
type Shift struct {
	ID          string
	GroupID     string
	StartDate   time.Time
	EndDate     time.Time
	CreatedAt   time.Time
	AssigneeIDs []string
}

// ShiftRepository defines shift and assignment data operations
type ShiftRepository interface {
	Create(ctx context.Context, shift *Shift) error
	FindByID(ctx context.Context, id string) (*Shift, error)
	FindByGroupID(ctx context.Context, groupID string) ([]*Shift, error)
	FindByUserID(ctx context.Context, userID string) ([]*Shift, error)
	// AttachUser adds a user to the shift's assignee set. Attaching an
	// already-assigned user is a no-op.
	AttachUser(ctx context.Context, shiftID, userID string) error
	FindAssigneeIDs(ctx context.Context, shiftID string) ([]string, error)
}

type pgShiftRepository struct {
	pool *pgxpool.Pool
}

func NewShiftRepository(pool *pgxpool.Pool) ShiftRepository {
	return &pgShiftRepository{pool: pool}
}

func (r *pgShiftRepository) Create(ctx context.Context, shift *Shift) error {
	query := `
		INSERT INTO shifts (group_id, start_date, end_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, shift.GroupID, shift.StartDate, shift.EndDate).
		Scan(&shift.ID, &shift.CreatedAt)
}

func (r *pgShiftRepository) FindByID(ctx context.Context, id string) (*Shift, error) {
	query := `
		SELECT id, group_id, start_date, end_date, created_at
		FROM shifts WHERE id = $1
	`
	shift := &Shift{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&shift.ID, &shift.GroupID, &shift.StartDate, &shift.EndDate, &shift.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return shift, nil
}

func (r *pgShiftRepository) FindByGroupID(ctx context.Context, groupID string) ([]*Shift, error) {
	query := `
		SELECT s.id, s.group_id, s.start_date, s.end_date, s.created_at,
		       COALESCE(array_agg(sa.user_id) FILTER (WHERE sa.user_id IS NOT NULL), '{}')
		FROM shifts s
		LEFT JOIN shift_assignments sa ON s.id = sa.shift_id
		WHERE s.group_id = $1
		GROUP BY s.id
		ORDER BY s.start_date
	`
	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*Shift
	for rows.Next() {
		shift := &Shift{}
		if err := rows.Scan(
			&shift.ID, &shift.GroupID, &shift.StartDate, &shift.EndDate,
			&shift.CreatedAt, &shift.AssigneeIDs,
		); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, nil
}

func (r *pgShiftRepository) FindByUserID(ctx context.Context, userID string) ([]*Shift, error) {
	query := `
		SELECT s.id, s.group_id, s.start_date, s.end_date, s.created_at
		FROM shifts s
		INNER JOIN shift_assignments sa ON s.id = sa.shift_id
		WHERE sa.user_id = $1
		ORDER BY s.start_date
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*Shift
	for rows.Next() {
		shift := &Shift{}
		if err := rows.Scan(
			&shift.ID, &shift.GroupID, &shift.StartDate, &shift.EndDate, &shift.CreatedAt,
		); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, nil
}

func (r *pgShiftRepository) AttachUser(ctx context.Context, shiftID, userID string) error {
	query := `
		INSERT INTO shift_assignments (shift_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (shift_id, user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, shiftID, userID)
	return err
}

func (r *pgShiftRepository) FindAssigneeIDs(ctx context.Context, shiftID string) ([]string, error) {
	query := `SELECT user_id FROM shift_assignments WHERE shift_id = $1 ORDER BY assigned_at`
	rows, err := r.pool.Query(ctx, query, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, userID)
	}
	return userIDs, nil
}
