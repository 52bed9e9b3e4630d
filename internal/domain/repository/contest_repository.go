package repository

import (
	"context"

	"codearena/internal/domain/model"
)

type ContestRepository interface {
	ListContests(ctx context.Context) ([]model.Contest, error)
	FindContestByID(ctx context.Context, id string) (*model.Contest, error)

	// Used by the seed tool, not exposed over the API.
	CreateContest(ctx context.Context, contest *model.Contest) error
}
