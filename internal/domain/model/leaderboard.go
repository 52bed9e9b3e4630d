package model

import "time"

// LeaderboardEntry is derived from submissions on every query; it has no
// persisted lifecycle of its own.
type LeaderboardEntry struct {
	Rank                int       `json:"rank"`
	Username            string    `json:"username"`
	ProblemsSolved      int       `json:"problems_solved"`
	TotalScore          int       `json:"total_score"`
	SubmissionsCount    int       `json:"submissions_count"`
	FirstSubmissionTime time.Time `json:"first_submission_time"`
}

type LeaderboardStats struct {
	TotalParticipants int `json:"total_participants"`
	AverageScore      int `json:"average_score"`
	TopScore          int `json:"top_score"`
}
