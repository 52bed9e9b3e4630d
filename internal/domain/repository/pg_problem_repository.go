package repository

import (
	"context"
	"database/sql"
	"errors"

	"codearena/internal/common"
	"codearena/internal/domain/model"
)

type PgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) *PgProblemRepository {
	return &PgProblemRepository{db: db}
}

func (r *PgProblemRepository) FindProblemByID(ctx context.Context, id string) (*model.Problem, error) {
	var p model.Problem
	err := r.db.QueryRowContext(ctx, `
		SELECT id, contest_id, title, slug, description, difficulty, sort_order, created_at
		FROM problems
		WHERE id = $1`, id).
		Scan(&p.ID, &p.ContestID, &p.Title, &p.Slug, &p.Description, &p.Difficulty, &p.SortOrder, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.Errorf("failed to find problem %s: %w", id, err)
	}
	return &p, nil
}

func (r *PgProblemRepository) ListProblemsByContestID(ctx context.Context, contestID string) ([]model.Problem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, contest_id, title, slug, description, difficulty, sort_order, created_at
		FROM problems
		WHERE contest_id = $1
		ORDER BY sort_order, id`, contestID)
	if err != nil {
		return nil, common.Errorf("failed to list problems for contest %s: %w", contestID, err)
	}
	defer rows.Close()

	var problems []model.Problem
	for rows.Next() {
		var p model.Problem
		if err := rows.Scan(&p.ID, &p.ContestID, &p.Title, &p.Slug, &p.Description, &p.Difficulty, &p.SortOrder, &p.CreatedAt); err != nil {
			return nil, common.Errorf("failed to scan problem row: %w", err)
		}
		problems = append(problems, p)
	}
	return problems, rows.Err()
}

func (r *PgProblemRepository) GetTestCasesByProblemID(ctx context.Context, problemID string) ([]model.TestCase, error) {
	return r.queryTestCases(ctx, `
		SELECT id, problem_id, input, expected_output, is_sample, sort_order, created_at
		FROM test_cases
		WHERE problem_id = $1
		ORDER BY sort_order, id`, problemID)
}

func (r *PgProblemRepository) GetSampleTestCases(ctx context.Context, problemID string) ([]model.TestCase, error) {
	return r.queryTestCases(ctx, `
		SELECT id, problem_id, input, expected_output, is_sample, sort_order, created_at
		FROM test_cases
		WHERE problem_id = $1 AND is_sample = TRUE
		ORDER BY sort_order, id`, problemID)
}

func (r *PgProblemRepository) queryTestCases(ctx context.Context, query, problemID string) ([]model.TestCase, error) {
	rows, err := r.db.QueryContext(ctx, query, problemID)
	if err != nil {
		return nil, common.Errorf("failed to fetch test cases for problem %s: %w", problemID, err)
	}
	defer rows.Close()

	var testCases []model.TestCase
	for rows.Next() {
		var tc model.TestCase
		if err := rows.Scan(&tc.ID, &tc.ProblemID, &tc.Input, &tc.ExpectedOutput, &tc.IsSample, &tc.SortOrder, &tc.CreatedAt); err != nil {
			return nil, common.Errorf("failed to scan test case row: %w", err)
		}
		testCases = append(testCases, tc)
	}
	return testCases, rows.Err()
}

func (r *PgProblemRepository) CreateProblem(ctx context.Context, problem *model.Problem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO problems (id, contest_id, title, slug, description, difficulty, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		problem.ID, problem.ContestID, problem.Title, problem.Slug, problem.Description, problem.Difficulty, problem.SortOrder)
	if err != nil {
		return common.Errorf("failed to create problem %s: %w", problem.ID, err)
	}
	return nil
}

func (r *PgProblemRepository) CreateTestCase(ctx context.Context, tc *model.TestCase) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO test_cases (id, problem_id, input, expected_output, is_sample, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		tc.ID, tc.ProblemID, tc.Input, tc.ExpectedOutput, tc.IsSample, tc.SortOrder)
	if err != nil {
		return common.Errorf("failed to create test case %s: %w", tc.ID, err)
	}
	return nil
}
