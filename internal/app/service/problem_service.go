package service

import (
	"context"

	"codearena/internal/common"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"
)

type ProblemService struct {
	problemRepo repository.ProblemRepository
}

func NewProblemService(problemRepo repository.ProblemRepository) *ProblemService {
	return &ProblemService{problemRepo: problemRepo}
}

// GetProblemDetails returns the problem with its sample test cases only.
// Hidden grading cases never leave the store through this path.
func (s *ProblemService) GetProblemDetails(ctx context.Context, problemID string) (*model.Problem, error) {
	problem, err := s.problemRepo.FindProblemByID(ctx, problemID)
	if err != nil {
		return nil, err
	}

	samples, err := s.problemRepo.GetSampleTestCases(ctx, problemID)
	if err != nil {
		return nil, common.Errorf("failed to load sample cases for problem %s: %w", problemID, err)
	}
	problem.TestCases = samples
	return problem, nil
}
