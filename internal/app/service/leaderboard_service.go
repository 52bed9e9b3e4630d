package service

import (
	"context"
	"math"
	"sort"
	"time"

	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"
)

type LeaderboardService struct {
	contestRepo    repository.ContestRepository
	submissionRepo repository.SubmissionRepository
}

func NewLeaderboardService(contestRepo repository.ContestRepository, subRepo repository.SubmissionRepository) *LeaderboardService {
	return &LeaderboardService{contestRepo: contestRepo, submissionRepo: subRepo}
}

// BuildLeaderboard recomputes the contest standings from the current
// submission set. It holds no locks and mutates nothing; a submission graded
// between two calls simply shows up in the later one.
func (s *LeaderboardService) BuildLeaderboard(ctx context.Context, contestID string) ([]model.LeaderboardEntry, model.LeaderboardStats, error) {
	if _, err := s.contestRepo.FindContestByID(ctx, contestID); err != nil {
		return nil, model.LeaderboardStats{}, err
	}

	submissions, err := s.submissionRepo.ListSubmissionsByContestID(ctx, contestID)
	if err != nil {
		return nil, model.LeaderboardStats{}, err
	}

	entries, stats := AggregateLeaderboard(contestID, submissions)
	return entries, stats, nil
}

type standing struct {
	username            string
	solvedProblems      map[string]struct{}
	totalScore          int
	submissionsCount    int
	firstSubmissionTime time.Time
}

// AggregateLeaderboard folds a contest's submissions into ranked entries.
// The fold map is local to the call and discarded once the entries are built.
// Submissions whose problem belongs to a different contest are skipped even
// if the store returned them in the batch.
//
// problems_solved counts distinct problems with an accepted submission, so a
// second accept on the same problem raises total_score but not the solve
// count.
func AggregateLeaderboard(contestID string, submissions []model.Submission) ([]model.LeaderboardEntry, model.LeaderboardStats) {
	standings := make(map[string]*standing)
	var order []string // first-seen order, so full ties rank deterministically

	for _, sub := range submissions {
		if sub.ProblemContestID != contestID {
			continue
		}

		st, ok := standings[sub.Username]
		if !ok {
			st = &standing{
				username:            sub.Username,
				solvedProblems:      make(map[string]struct{}),
				firstSubmissionTime: sub.CreatedAt,
			}
			standings[sub.Username] = st
			order = append(order, sub.Username)
		}

		switch sub.Status {
		case model.StatusAccepted:
			st.solvedProblems[sub.ProblemID] = struct{}{}
			st.totalScore += sub.Score
		case model.StatusPartial:
			st.totalScore += sub.Score
		}
		// Processing and Error contribute nothing to the score.

		st.submissionsCount++
		if sub.CreatedAt.Before(st.firstSubmissionTime) {
			st.firstSubmissionTime = sub.CreatedAt
		}
	}

	entries := make([]model.LeaderboardEntry, 0, len(order))
	for _, username := range order {
		st := standings[username]
		entries = append(entries, model.LeaderboardEntry{
			Username:            st.username,
			ProblemsSolved:      len(st.solvedProblems),
			TotalScore:          st.totalScore,
			SubmissionsCount:    st.submissionsCount,
			FirstSubmissionTime: st.firstSubmissionTime,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		if entries[i].ProblemsSolved != entries[j].ProblemsSolved {
			return entries[i].ProblemsSolved > entries[j].ProblemsSolved
		}
		return entries[i].FirstSubmissionTime.Before(entries[j].FirstSubmissionTime)
	})

	// Dense 1-based ranks; tied participants still get consecutive distinct
	// ranks.
	for i := range entries {
		entries[i].Rank = i + 1
	}

	stats := model.LeaderboardStats{TotalParticipants: len(entries)}
	if len(entries) > 0 {
		sum := 0
		for _, e := range entries {
			sum += e.TotalScore
		}
		stats.AverageScore = int(math.Round(float64(sum) / float64(len(entries))))
		stats.TopScore = entries[0].TotalScore
	}

	return entries, stats
}
