package repository

import (
	"context"
	"database/sql"
	"errors"

	"codearena/internal/common"
	"codearena/internal/domain/model"
)

type PgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) *PgSubmissionRepository {
	return &PgSubmissionRepository{db: db}
}

func (r *PgSubmissionRepository) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO submissions (id, problem_id, username, code, language, status, score, test_cases_passed, total_test_cases)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sub.ID, sub.ProblemID, sub.Username, sub.Code, sub.Language, sub.Status, sub.Score, sub.TestCasesPassed, sub.TotalTestCases)
	if err != nil {
		return common.Errorf("failed to create submission %s: %w", sub.ID, err)
	}
	return nil
}

func (r *PgSubmissionRepository) GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error) {
	var s model.Submission
	err := r.db.QueryRowContext(ctx, `
		SELECT id, problem_id, username, code, language, status, score, test_cases_passed, total_test_cases, created_at, updated_at
		FROM submissions
		WHERE id = $1`, id).
		Scan(&s.ID, &s.ProblemID, &s.Username, &s.Code, &s.Language, &s.Status,
			&s.Score, &s.TestCasesPassed, &s.TotalTestCases, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.Errorf("failed to find submission %s: %w", id, err)
	}
	return &s, nil
}

func (r *PgSubmissionRepository) GetSubmissionTestResults(ctx context.Context, submissionID string) ([]model.SubmissionTestCaseResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, submission_id, test_case_id, input, expected_output, actual_output, passed, is_sample, sort_order
		FROM submission_test_case_results
		WHERE submission_id = $1
		ORDER BY sort_order, id`, submissionID)
	if err != nil {
		return nil, common.Errorf("failed to fetch test case results for submission %s: %w", submissionID, err)
	}
	defer rows.Close()

	var results []model.SubmissionTestCaseResult
	for rows.Next() {
		var res model.SubmissionTestCaseResult
		if err := rows.Scan(&res.ID, &res.SubmissionID, &res.TestCaseID, &res.Input,
			&res.ExpectedOutput, &res.ActualOutput, &res.Passed, &res.IsSample, &res.SortOrder); err != nil {
			return nil, common.Errorf("failed to scan test case result row: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *PgSubmissionRepository) ListSubmissionsByContestID(ctx context.Context, contestID string) ([]model.Submission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.problem_id, s.username, s.language, s.status, s.score,
		       s.test_cases_passed, s.total_test_cases, s.created_at, s.updated_at, p.contest_id
		FROM submissions s
		JOIN problems p ON p.id = s.problem_id
		WHERE p.contest_id = $1
		ORDER BY s.created_at, s.id`, contestID)
	if err != nil {
		return nil, common.Errorf("failed to list submissions for contest %s: %w", contestID, err)
	}
	defer rows.Close()

	var submissions []model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.ProblemID, &s.Username, &s.Language, &s.Status,
			&s.Score, &s.TestCasesPassed, &s.TotalTestCases, &s.CreatedAt, &s.UpdatedAt, &s.ProblemContestID); err != nil {
			return nil, common.Errorf("failed to scan submission row: %w", err)
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

func (r *PgSubmissionRepository) FinalizeVerdict(ctx context.Context, sub *model.Submission, status model.SubmissionStatus, score, passed, total int, results []model.SubmissionTestCaseResult) (bool, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, false, common.Errorf("failed to begin verdict transaction for submission %s: %w", sub.ID, err)
	}
	defer tx.Rollback()

	updated, err := r.updateVerdict(ctx, tx, sub.ID, status, score, passed, total)
	if err != nil {
		return false, false, err
	}
	if !updated {
		// Already terminal; leave the existing verdict untouched.
		return false, false, nil
	}

	if err := r.insertTestResults(ctx, tx, results); err != nil {
		return false, false, err
	}

	firstSolve := false
	if status == model.StatusAccepted {
		firstSolve, err = r.tryMarkProblemSolved(ctx, tx, sub.Username, sub.ProblemID, sub.ID)
		if err != nil {
			return false, false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, false, common.Errorf("failed to commit verdict for submission %s: %w", sub.ID, err)
	}
	return true, firstSolve, nil
}

func (r *PgSubmissionRepository) updateVerdict(ctx context.Context, tx *sql.Tx, id string, status model.SubmissionStatus, score, passed, total int) (bool, error) {
	// Guarding on Processing makes the pending -> terminal transition one-way.
	res, err := tx.ExecContext(ctx, `
		UPDATE submissions
		SET status = $1, score = $2, test_cases_passed = $3, total_test_cases = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND status = $6`,
		status, score, passed, total, id, model.StatusProcessing)
	if err != nil {
		return false, common.Errorf("failed to update verdict for submission %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, common.Errorf("failed to read rows affected for submission %s: %w", id, err)
	}
	return affected == 1, nil
}

func (r *PgSubmissionRepository) insertTestResults(ctx context.Context, tx *sql.Tx, results []model.SubmissionTestCaseResult) error {
	for _, res := range results {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO submission_test_case_results (id, submission_id, test_case_id, input, expected_output, actual_output, passed, is_sample, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			res.ID, res.SubmissionID, res.TestCaseID, res.Input, res.ExpectedOutput,
			res.ActualOutput, res.Passed, res.IsSample, res.SortOrder)
		if err != nil {
			return common.Errorf("failed to store test case result for submission %s: %w", res.SubmissionID, err)
		}
	}
	return nil
}

func (r *PgSubmissionRepository) tryMarkProblemSolved(ctx context.Context, tx *sql.Tx, username, problemID, submissionID string) (bool, error) {
	// Single conditional insert: concurrent accepted gradings for the same
	// (username, problem) pair race on the primary key, and exactly one wins.
	res, err := tx.ExecContext(ctx, `
		INSERT INTO user_problem_solves (username, problem_id, submission_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (username, problem_id) DO NOTHING`,
		username, problemID, submissionID)
	if err != nil {
		return false, common.Errorf("failed to record solve for %s on problem %s: %w", username, problemID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, common.Errorf("failed to read rows affected for solve record: %w", err)
	}
	return affected == 1, nil
}
