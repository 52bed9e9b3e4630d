package model

import "time"

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

type Problem struct {
	ID          string            `json:"id"`
	ContestID   string            `json:"contest_id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Difficulty  ProblemDifficulty `json:"difficulty"`
	SortOrder   int               `json:"sort_order"`
	CreatedAt   time.Time         `json:"created_at"`
	TestCases   []TestCase        `json:"test_cases,omitempty"` // Sample cases only in API responses
}

// TestCase is immutable once created. Non-sample cases are hidden grading
// cases and must never be serialized into problem responses.
type TestCase struct {
	ID             string    `json:"id"`
	ProblemID      string    `json:"problem_id"`
	Input          string    `json:"input"`
	ExpectedOutput string    `json:"expected_output"`
	IsSample       bool      `json:"is_sample"`
	SortOrder      int       `json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
}
