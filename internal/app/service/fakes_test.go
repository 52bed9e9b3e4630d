package service_test

import (
	"context"
	"sync"

	"codearena/internal/common"
	"codearena/internal/domain/model"
)

type fakeContestRepo struct {
	contests map[string]*model.Contest
}

func newFakeContestRepo(contests ...*model.Contest) *fakeContestRepo {
	r := &fakeContestRepo{contests: make(map[string]*model.Contest)}
	for _, c := range contests {
		r.contests[c.ID] = c
	}
	return r
}

func (r *fakeContestRepo) ListContests(ctx context.Context) ([]model.Contest, error) {
	var out []model.Contest
	for _, c := range r.contests {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeContestRepo) FindContestByID(ctx context.Context, id string) (*model.Contest, error) {
	c, ok := r.contests[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeContestRepo) CreateContest(ctx context.Context, contest *model.Contest) error {
	r.contests[contest.ID] = contest
	return nil
}

type fakeProblemRepo struct {
	problems  map[string]*model.Problem
	testCases map[string][]model.TestCase
}

func newFakeProblemRepo(problems ...*model.Problem) *fakeProblemRepo {
	r := &fakeProblemRepo{
		problems:  make(map[string]*model.Problem),
		testCases: make(map[string][]model.TestCase),
	}
	for _, p := range problems {
		r.problems[p.ID] = p
	}
	return r
}

func (r *fakeProblemRepo) FindProblemByID(ctx context.Context, id string) (*model.Problem, error) {
	p, ok := r.problems[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProblemRepo) ListProblemsByContestID(ctx context.Context, contestID string) ([]model.Problem, error) {
	var out []model.Problem
	for _, p := range r.problems {
		if p.ContestID == contestID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProblemRepo) GetTestCasesByProblemID(ctx context.Context, problemID string) ([]model.TestCase, error) {
	return r.testCases[problemID], nil
}

func (r *fakeProblemRepo) GetSampleTestCases(ctx context.Context, problemID string) ([]model.TestCase, error) {
	var out []model.TestCase
	for _, tc := range r.testCases[problemID] {
		if tc.IsSample {
			out = append(out, tc)
		}
	}
	return out, nil
}

func (r *fakeProblemRepo) CreateProblem(ctx context.Context, problem *model.Problem) error {
	r.problems[problem.ID] = problem
	return nil
}

func (r *fakeProblemRepo) CreateTestCase(ctx context.Context, tc *model.TestCase) error {
	r.testCases[tc.ProblemID] = append(r.testCases[tc.ProblemID], *tc)
	return nil
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[string]*model.Submission
	results     map[string][]model.SubmissionTestCaseResult
	solves      map[string]string // username+"|"+problemID -> submissionID
	byContest   []model.Submission
	createErr   error
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		submissions: make(map[string]*model.Submission),
		results:     make(map[string][]model.SubmissionTestCaseResult),
		solves:      make(map[string]string),
	}
}

func (r *fakeSubmissionRepo) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sub
	r.submissions[sub.ID] = &cp
	return nil
}

func (r *fakeSubmissionRepo) GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.submissions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSubmissionRepo) GetSubmissionTestResults(ctx context.Context, submissionID string) ([]model.SubmissionTestCaseResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[submissionID], nil
}

func (r *fakeSubmissionRepo) ListSubmissionsByContestID(ctx context.Context, contestID string) ([]model.Submission, error) {
	return r.byContest, nil
}

func (r *fakeSubmissionRepo) FinalizeVerdict(ctx context.Context, sub *model.Submission, status model.SubmissionStatus, score, passed, total int, results []model.SubmissionTestCaseResult) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.submissions[sub.ID]
	if !ok {
		return false, false, common.ErrNotFound
	}
	if stored.Status.IsTerminal() {
		return false, false, nil
	}
	stored.Status = status
	stored.Score = score
	stored.TestCasesPassed = passed
	stored.TotalTestCases = total
	r.results[sub.ID] = results

	firstSolve := false
	if status == model.StatusAccepted {
		key := sub.Username + "|" + sub.ProblemID
		if _, seen := r.solves[key]; !seen {
			r.solves[key] = sub.ID
			firstSolve = true
		}
	}
	return true, firstSolve, nil
}
