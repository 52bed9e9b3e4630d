package service

import (
	"context"

	"codearena/internal/common"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"
)

type ContestService struct {
	contestRepo repository.ContestRepository
	problemRepo repository.ProblemRepository
}

func NewContestService(contestRepo repository.ContestRepository, problemRepo repository.ProblemRepository) *ContestService {
	return &ContestService{contestRepo: contestRepo, problemRepo: problemRepo}
}

func (s *ContestService) ListContests(ctx context.Context) ([]model.Contest, error) {
	return s.contestRepo.ListContests(ctx)
}

// GetContestDetails returns the contest with its problem list. Test cases
// stay out of the contest view; the problem endpoint serves the samples.
func (s *ContestService) GetContestDetails(ctx context.Context, contestID string) (*model.Contest, error) {
	contest, err := s.contestRepo.FindContestByID(ctx, contestID)
	if err != nil {
		return nil, err
	}

	problems, err := s.problemRepo.ListProblemsByContestID(ctx, contestID)
	if err != nil {
		return nil, common.Errorf("failed to load problems for contest %s: %w", contestID, err)
	}
	contest.Problems = problems
	return contest, nil
}
