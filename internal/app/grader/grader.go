package grader

import (
	"context"
	"math"
	"strings"

	"codearena/internal/domain/model"

	"go.uber.org/zap"
)

// Runner is the external execution capability: run one program against one
// stdin and hand back whatever the judge captured.
type Runner interface {
	Run(ctx context.Context, language, code, stdin string) (RunResult, error)
}

type RunResult struct {
	Output string
	Status string
}

type CaseResult struct {
	TestCaseID string `json:"test_case_id"`
	Input      string `json:"input"`
	Expected   string `json:"expected"`
	Actual     string `json:"actual"`
	Passed     bool   `json:"passed"`
	IsSample   bool   `json:"is_sample"`
}

type Result struct {
	Passed int
	Total  int
	Cases  []CaseResult
}

// executionFailedOutput is stored as the actual output of a test case whose
// run could not complete (judge unreachable or polling exhausted).
const executionFailedOutput = "Execution Error"

type Grader struct {
	runner Runner
	logger *zap.Logger
}

func New(runner Runner, logger *zap.Logger) *Grader {
	return &Grader{runner: runner, logger: logger}
}

// Grade runs the submitted program against every test case in order. A
// failed run marks that single case failed and grading continues; Grade never
// aborts partway. The returned case results preserve input order, and an
// empty test case set yields Passed=0, Total=0.
func (g *Grader) Grade(ctx context.Context, submissionID, code, language string, testCases []model.TestCase) Result {
	result := Result{
		Total: len(testCases),
		Cases: make([]CaseResult, 0, len(testCases)),
	}

	for _, tc := range testCases {
		caseResult := CaseResult{
			TestCaseID: tc.ID,
			Input:      tc.Input,
			Expected:   tc.ExpectedOutput,
			IsSample:   tc.IsSample,
		}

		runResult, err := g.runner.Run(ctx, language, code, tc.Input)
		if err != nil {
			g.logger.Warn("test case execution failed",
				zap.String("submission_id", submissionID),
				zap.String("test_case_id", tc.ID),
				zap.Error(err))
			caseResult.Actual = executionFailedOutput
			result.Cases = append(result.Cases, caseResult)
			continue
		}

		caseResult.Actual = runResult.Output
		caseResult.Passed = OutputsMatch(runResult.Output, tc.ExpectedOutput)
		if caseResult.Passed {
			result.Passed++
		}
		result.Cases = append(result.Cases, caseResult)
	}

	return result
}

// OutputsMatch compares captured and expected output after trimming leading
// and trailing whitespace on both sides. Exact string equality, no diffing,
// no numeric tolerance.
func OutputsMatch(actual, expected string) bool {
	return strings.TrimSpace(actual) == strings.TrimSpace(expected)
}

// Score derives the 0-100 integer score. An empty test case set scores 0
// rather than dividing by zero.
func Score(passed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(passed) / float64(total)))
}

// Status derives the terminal verdict for a grading that ran to completion.
// Accepted requires every case to pass and at least one case to exist;
// anything else is Partial. StatusError is reserved for gradings that could
// not run at all and is assigned by the caller, never here.
func Status(passed, total int) model.SubmissionStatus {
	if total > 0 && passed == total {
		return model.StatusAccepted
	}
	return model.StatusPartial
}
