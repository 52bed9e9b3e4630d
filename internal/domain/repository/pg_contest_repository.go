package repository

import (
	"context"
	"database/sql"
	"errors"

	"codearena/internal/common"
	"codearena/internal/domain/model"
)

type PgContestRepository struct {
	db *sql.DB
}

func NewPgContestRepository(db *sql.DB) *PgContestRepository {
	return &PgContestRepository{db: db}
}

func (r *PgContestRepository) ListContests(ctx context.Context) ([]model.Contest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, start_time, end_time, created_at
		FROM contests
		ORDER BY start_time DESC`)
	if err != nil {
		return nil, common.Errorf("failed to list contests: %w", err)
	}
	defer rows.Close()

	var contests []model.Contest
	for rows.Next() {
		var c model.Contest
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.StartTime, &c.EndTime, &c.CreatedAt); err != nil {
			return nil, common.Errorf("failed to scan contest row: %w", err)
		}
		contests = append(contests, c)
	}
	return contests, rows.Err()
}

func (r *PgContestRepository) FindContestByID(ctx context.Context, id string) (*model.Contest, error) {
	var c model.Contest
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, start_time, end_time, created_at
		FROM contests
		WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.StartTime, &c.EndTime, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.Errorf("failed to find contest %s: %w", id, err)
	}
	return &c, nil
}

func (r *PgContestRepository) CreateContest(ctx context.Context, contest *model.Contest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contests (id, name, description, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)`,
		contest.ID, contest.Name, contest.Description, contest.StartTime, contest.EndTime)
	if err != nil {
		return common.Errorf("failed to create contest %s: %w", contest.ID, err)
	}
	return nil
}
