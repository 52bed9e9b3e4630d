package model

import "time"

type SubmissionStatus string

const (
	// StatusProcessing is the intake state: the submission is recorded but
	// grading has not finished. Every submission moves from Processing to
	// exactly one terminal state and never back.
	StatusProcessing SubmissionStatus = "Processing"
	StatusAccepted   SubmissionStatus = "Accepted"
	StatusPartial    SubmissionStatus = "Partial"
	StatusError      SubmissionStatus = "Error"
)

// IsTerminal reports whether a submission has been graded. Terminal
// submissions are never re-graded.
func (s SubmissionStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusPartial || s == StatusError
}

type Submission struct {
	ID               string                     `json:"id"`
	ProblemID        string                     `json:"problem_id"`
	Username         string                     `json:"username"`
	Code             string                     `json:"code"`
	Language         string                     `json:"language"`
	Status           SubmissionStatus           `json:"status"`
	Score            int                        `json:"score"`
	TestCasesPassed  int                        `json:"test_cases_passed"`
	TotalTestCases   int                        `json:"total_test_cases"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
	TestCaseResults  []SubmissionTestCaseResult `json:"test_case_results,omitempty"`
	ProblemContestID string                     `json:"-"` // Populated by the leaderboard join
}

type SubmissionTestCaseResult struct {
	ID             string `json:"id"`
	SubmissionID   string `json:"submission_id"`
	TestCaseID     string `json:"test_case_id"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	ActualOutput   string `json:"actual_output"`
	Passed         bool   `json:"passed"`
	IsSample       bool   `json:"is_sample"`
	SortOrder      int    `json:"sort_order"`
}
