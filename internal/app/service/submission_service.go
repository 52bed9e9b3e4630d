package service

import (
	"context"

	"codearena/internal/common"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	problemRepo    repository.ProblemRepository
	rdb            *redis.Client
	queueName      string
	logger         *zap.Logger
}

func NewSubmissionService(
	subRepo repository.SubmissionRepository,
	probRepo repository.ProblemRepository,
	rdb *redis.Client,
	queueName string,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: subRepo,
		problemRepo:    probRepo,
		rdb:            rdb,
		queueName:      queueName,
		logger:         logger,
	}
}

type CreateSubmissionRequest struct {
	ProblemID string `json:"problem_id"`
	Username  string `json:"username"`
	Code      string `json:"code"`
	Language  string `json:"language"`
}

// CreateSubmission records the submission in its pending state and enqueues
// it for grading. The caller gets the Processing acknowledgment immediately;
// grading happens in the background worker.
func (s *SubmissionService) CreateSubmission(ctx context.Context, req CreateSubmissionRequest) (*model.Submission, error) {
	if req.ProblemID == "" {
		return nil, common.Errorf("problem_id is required: %w", common.ErrMissingField)
	}
	if req.Username == "" {
		return nil, common.Errorf("username is required: %w", common.ErrMissingField)
	}
	if req.Code == "" {
		return nil, common.Errorf("code is required: %w", common.ErrMissingField)
	}
	if req.Language == "" {
		return nil, common.Errorf("language is required: %w", common.ErrMissingField)
	}
	if !model.IsSupportedLanguage(req.Language) {
		return nil, common.Errorf("unsupported language %q: %w", req.Language, common.ErrBadRequest)
	}

	if _, err := s.problemRepo.FindProblemByID(ctx, req.ProblemID); err != nil {
		return nil, common.Errorf("problem %s: %w", req.ProblemID, err)
	}

	submission := &model.Submission{
		ID:        uuid.NewString(),
		ProblemID: req.ProblemID,
		Username:  req.Username,
		Code:      req.Code,
		Language:  req.Language,
		Status:    model.StatusProcessing,
	}

	if err := s.submissionRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, common.Errorf("failed to create submission: %w", err)
	}

	if err := s.rdb.LPush(ctx, s.queueName, submission.ID).Err(); err != nil {
		// The record exists but no worker will ever see it; close it out as
		// Error instead of leaving a submission stuck in Processing.
		s.logger.Error("failed to enqueue submission for grading",
			zap.String("submission_id", submission.ID), zap.Error(err))
		if _, _, ferr := s.submissionRepo.FinalizeVerdict(ctx, submission, model.StatusError, 0, 0, 0, nil); ferr != nil {
			s.logger.Error("failed to mark unqueued submission as Error",
				zap.String("submission_id", submission.ID), zap.Error(ferr))
		}
		return nil, common.Errorf("grading queue unavailable: %w", common.ErrServiceUnavailable)
	}

	s.logger.Info("submission created and enqueued",
		zap.String("submission_id", submission.ID),
		zap.String("problem_id", submission.ProblemID),
		zap.String("username", submission.Username))
	return submission, nil
}

// GetSubmission returns the current submission record, including per-case
// results once grading has finished. A submission mid-grade comes back with
// status Processing and no results; that is not an error.
func (s *SubmissionService) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	submission, err := s.submissionRepo.GetSubmissionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if submission.Status.IsTerminal() {
		results, err := s.submissionRepo.GetSubmissionTestResults(ctx, id)
		if err != nil {
			return nil, err
		}
		submission.TestCaseResults = results
	}
	return submission, nil
}
