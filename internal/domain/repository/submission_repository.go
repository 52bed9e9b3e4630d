package repository

import (
	"context"

	"codearena/internal/domain/model"
)

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, sub *model.Submission) error
	GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error)
	GetSubmissionTestResults(ctx context.Context, submissionID string) ([]model.SubmissionTestCaseResult, error)

	// ListSubmissionsByContestID returns all submissions whose problem belongs
	// to the contest, with ProblemContestID populated from the join.
	ListSubmissionsByContestID(ctx context.Context, contestID string) ([]model.Submission, error)

	// FinalizeVerdict moves a submission from Processing to a terminal status,
	// stores the per-case results, and, for an Accepted verdict, takes the
	// conditional first-accept credit, all in one transaction. It returns
	// updated=false when the submission was already terminal (nothing is
	// written), and firstSolve=true only when this call recorded the first
	// accepted submission for the (username, problem) pair.
	FinalizeVerdict(ctx context.Context, sub *model.Submission, status model.SubmissionStatus, score, passed, total int, results []model.SubmissionTestCaseResult) (updated, firstSolve bool, err error)
}
