package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"codearena/internal/app/grader"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// GradingWorker consumes submission IDs from the Redis queue and grades
// them. Submissions share no mutable state with each other, so the workers
// run without coordination; the one contended write, the first-accept
// credit, is a conditional insert inside FinalizeVerdict.
type GradingWorker struct {
	rdb            *redis.Client
	queueName      string
	workers        int
	problemRepo    repository.ProblemRepository
	submissionRepo repository.SubmissionRepository
	grader         *grader.Grader
	logger         *zap.Logger
}

func NewGradingWorker(
	rdb *redis.Client,
	queueName string,
	workers int,
	probRepo repository.ProblemRepository,
	subRepo repository.SubmissionRepository,
	g *grader.Grader,
	logger *zap.Logger,
) *GradingWorker {
	if workers < 1 {
		workers = 1
	}
	return &GradingWorker{
		rdb:            rdb,
		queueName:      queueName,
		workers:        workers,
		problemRepo:    probRepo,
		submissionRepo: subRepo,
		grader:         g,
		logger:         logger,
	}
}

// Start blocks until ctx is cancelled and every worker goroutine has drained.
func (w *GradingWorker) Start(ctx context.Context) {
	w.logger.Info("grading worker started",
		zap.String("queue", w.queueName), zap.Int("workers", w.workers))

	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.consume(ctx)
		}()
	}
	wg.Wait()
	w.logger.Info("grading worker stopped")
}

func (w *GradingWorker) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		popped, err := w.rdb.BRPop(ctx, 5*time.Second, w.queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // queue empty, poll again
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			w.logger.Error("failed to pop from grading queue", zap.Error(err))
			time.Sleep(5 * time.Second)
			continue
		}

		// BRPop returns [queueName, value].
		if len(popped) < 2 || popped[1] == "" {
			continue
		}
		w.ProcessSubmission(ctx, popped[1])
	}
}

// ProcessSubmission grades one submission end to end and writes its terminal
// verdict exactly once.
func (w *GradingWorker) ProcessSubmission(ctx context.Context, submissionID string) {
	logger := w.logger.With(zap.String("submission_id", submissionID))

	submission, err := w.submissionRepo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		logger.Error("failed to fetch submission for grading", zap.Error(err))
		return
	}
	if submission.Status.IsTerminal() {
		logger.Warn("submission already graded, skipping",
			zap.String("status", string(submission.Status)))
		return
	}

	testCases, err := w.problemRepo.GetTestCasesByProblemID(ctx, submission.ProblemID)
	if err != nil {
		// The grading infrastructure itself failed; this is Error, not a
		// wrong answer.
		logger.Error("failed to fetch test cases, failing submission", zap.Error(err))
		w.failSubmission(ctx, submission, logger)
		return
	}

	result := w.grader.Grade(ctx, submission.ID, submission.Code, submission.Language, testCases)
	score := grader.Score(result.Passed, result.Total)
	status := grader.Status(result.Passed, result.Total)

	caseResults := make([]model.SubmissionTestCaseResult, 0, len(result.Cases))
	for i, c := range result.Cases {
		caseResults = append(caseResults, model.SubmissionTestCaseResult{
			ID:             uuid.NewString(),
			SubmissionID:   submission.ID,
			TestCaseID:     c.TestCaseID,
			Input:          c.Input,
			ExpectedOutput: c.Expected,
			ActualOutput:   c.Actual,
			Passed:         c.Passed,
			IsSample:       c.IsSample,
			SortOrder:      i,
		})
	}

	updated, firstSolve, err := w.submissionRepo.FinalizeVerdict(ctx, submission, status, score, result.Passed, result.Total, caseResults)
	if err != nil {
		logger.Error("failed to finalize verdict", zap.Error(err))
		return
	}
	if !updated {
		logger.Warn("verdict already recorded by another grading, dropping result")
		return
	}

	logger.Info("submission graded",
		zap.String("status", string(status)),
		zap.Int("score", score),
		zap.Int("passed", result.Passed),
		zap.Int("total", result.Total),
		zap.Bool("first_solve", firstSolve))
}

func (w *GradingWorker) failSubmission(ctx context.Context, submission *model.Submission, logger *zap.Logger) {
	updated, _, err := w.submissionRepo.FinalizeVerdict(ctx, submission, model.StatusError, 0, 0, 0, nil)
	if err != nil {
		logger.Error("failed to mark submission as Error", zap.Error(err))
		return
	}
	if !updated {
		logger.Warn("submission already terminal while marking Error")
	}
}
