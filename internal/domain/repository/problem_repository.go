package repository

import (
	"context"

	"codearena/internal/domain/model"
)

type ProblemRepository interface {
	FindProblemByID(ctx context.Context, id string) (*model.Problem, error)
	ListProblemsByContestID(ctx context.Context, contestID string) ([]model.Problem, error)

	// GetTestCasesByProblemID returns every test case, hidden ones included,
	// in grading order.
	GetTestCasesByProblemID(ctx context.Context, problemID string) ([]model.TestCase, error)
	GetSampleTestCases(ctx context.Context, problemID string) ([]model.TestCase, error)

	// Used by the seed tool, not exposed over the API.
	CreateProblem(ctx context.Context, problem *model.Problem) error
	CreateTestCase(ctx context.Context, tc *model.TestCase) error
}
