package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"codearena/internal/app/service"
	"codearena/internal/common"
	"codearena/internal/domain/model"
)

var leaderboardBase = time.Date(2026, 9, 7, 18, 0, 0, 0, time.UTC)

func contestSubmission(username, problemID string, status model.SubmissionStatus, score int, offset time.Duration) model.Submission {
	return model.Submission{
		ID:               username + "-" + problemID + "-" + offset.String(),
		ProblemID:        problemID,
		Username:         username,
		Status:           status,
		Score:            score,
		CreatedAt:        leaderboardBase.Add(offset),
		ProblemContestID: "C1",
	}
}

func TestAggregateLeaderboardScoreBeatsTime(t *testing.T) {
	// bob submitted earlier, but alice's partial credit pushes her total past
	// his; total score wins before any time tie-break.
	subs := []model.Submission{
		contestSubmission("bob", "P1", model.StatusAccepted, 100, 0),
		contestSubmission("alice", "P1", model.StatusAccepted, 100, time.Second),
		contestSubmission("alice", "P2", model.StatusPartial, 40, 2*time.Second),
	}

	entries, stats := service.AggregateLeaderboard("C1", subs)

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Username != "alice" || entries[0].Rank != 1 || entries[0].TotalScore != 140 {
		t.Fatalf("expected alice rank 1 with 140, got %+v", entries[0])
	}
	if entries[1].Username != "bob" || entries[1].Rank != 2 || entries[1].TotalScore != 100 {
		t.Fatalf("expected bob rank 2 with 100, got %+v", entries[1])
	}
	if stats.TopScore != 140 || stats.TotalParticipants != 2 || stats.AverageScore != 120 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestAggregateLeaderboardTimeBreaksTies(t *testing.T) {
	subs := []model.Submission{
		contestSubmission("late", "P1", model.StatusAccepted, 100, time.Minute),
		contestSubmission("early", "P1", model.StatusAccepted, 100, 0),
	}

	entries, _ := service.AggregateLeaderboard("C1", subs)

	if entries[0].Username != "early" || entries[1].Username != "late" {
		t.Fatalf("expected earlier first submission to rank higher, got %s then %s",
			entries[0].Username, entries[1].Username)
	}
}

func TestAggregateLeaderboardDenseDistinctRanksOnFullTie(t *testing.T) {
	subs := []model.Submission{
		contestSubmission("u1", "P1", model.StatusAccepted, 100, 0),
		contestSubmission("u2", "P1", model.StatusAccepted, 100, 0),
		contestSubmission("u3", "P1", model.StatusAccepted, 100, 0),
	}

	entries, _ := service.AggregateLeaderboard("C1", subs)

	for i, e := range entries {
		if e.Rank != i+1 {
			t.Fatalf("expected dense distinct ranks, got rank %d at position %d", e.Rank, i)
		}
	}
}

func TestAggregateLeaderboardDeterministic(t *testing.T) {
	subs := []model.Submission{
		contestSubmission("u1", "P1", model.StatusAccepted, 100, 0),
		contestSubmission("u2", "P2", model.StatusAccepted, 100, 0),
		contestSubmission("u3", "P1", model.StatusPartial, 50, time.Second),
		contestSubmission("u2", "P1", model.StatusPartial, 50, 2*time.Second),
	}

	first, firstStats := service.AggregateLeaderboard("C1", subs)
	for i := 0; i < 20; i++ {
		again, againStats := service.AggregateLeaderboard("C1", subs)
		if !reflect.DeepEqual(first, again) || firstStats != againStats {
			t.Fatalf("aggregation not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestAggregateLeaderboardFiltersForeignContestRows(t *testing.T) {
	foreign := contestSubmission("intruder", "P9", model.StatusAccepted, 100, 0)
	foreign.ProblemContestID = "C2"
	subs := []model.Submission{
		contestSubmission("alice", "P1", model.StatusAccepted, 100, 0),
		foreign,
	}

	entries, stats := service.AggregateLeaderboard("C1", subs)

	if len(entries) != 1 || entries[0].Username != "alice" {
		t.Fatalf("expected foreign contest submission excluded, got %+v", entries)
	}
	if stats.TotalParticipants != 1 {
		t.Fatalf("expected 1 participant, got %d", stats.TotalParticipants)
	}
}

func TestAggregateLeaderboardSolvesDedupedScoresSummed(t *testing.T) {
	// Two accepted submissions for the same problem: the solve counter
	// de-duplicates by problem while the score still sums per submission.
	// The sampled behavior disagreed between its two aggregation sites, so
	// this pins the chosen rule.
	subs := []model.Submission{
		contestSubmission("alice", "P1", model.StatusAccepted, 100, 0),
		contestSubmission("alice", "P1", model.StatusAccepted, 100, time.Minute),
	}

	entries, _ := service.AggregateLeaderboard("C1", subs)

	if entries[0].ProblemsSolved != 1 {
		t.Fatalf("expected problems_solved deduped to 1, got %d", entries[0].ProblemsSolved)
	}
	if entries[0].TotalScore != 200 {
		t.Fatalf("expected total_score 200, got %d", entries[0].TotalScore)
	}
	if entries[0].SubmissionsCount != 2 {
		t.Fatalf("expected 2 submissions counted, got %d", entries[0].SubmissionsCount)
	}
}

func TestAggregateLeaderboardPendingAndErrorScoreNothing(t *testing.T) {
	subs := []model.Submission{
		contestSubmission("alice", "P1", model.StatusProcessing, 0, 0),
		contestSubmission("alice", "P2", model.StatusError, 0, time.Second),
		contestSubmission("alice", "P3", model.StatusPartial, 30, 2*time.Second),
	}

	entries, _ := service.AggregateLeaderboard("C1", subs)

	if entries[0].TotalScore != 30 {
		t.Fatalf("expected only partial score counted, got %d", entries[0].TotalScore)
	}
	if entries[0].ProblemsSolved != 0 {
		t.Fatalf("expected no solves, got %d", entries[0].ProblemsSolved)
	}
	if entries[0].SubmissionsCount != 3 {
		t.Fatalf("expected all 3 submissions counted, got %d", entries[0].SubmissionsCount)
	}
	if entries[0].FirstSubmissionTime != leaderboardBase {
		t.Fatalf("expected earliest timestamp kept, got %v", entries[0].FirstSubmissionTime)
	}
}

func TestAggregateLeaderboardEmpty(t *testing.T) {
	entries, stats := service.AggregateLeaderboard("C1", nil)

	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
	if stats.TotalParticipants != 0 || stats.AverageScore != 0 || stats.TopScore != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
}

func TestBuildLeaderboardUnknownContest(t *testing.T) {
	svc := service.NewLeaderboardService(newFakeContestRepo(), newFakeSubmissionRepo())

	_, _, err := svc.BuildLeaderboard(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBuildLeaderboardEndToEnd(t *testing.T) {
	contestRepo := newFakeContestRepo(&model.Contest{ID: "C1", Name: "Weekly Sprint"})
	subRepo := newFakeSubmissionRepo()
	subRepo.byContest = []model.Submission{
		contestSubmission("alice", "P1", model.StatusAccepted, 100, time.Second),
		contestSubmission("alice", "P2", model.StatusPartial, 40, 2*time.Second),
		contestSubmission("bob", "P1", model.StatusAccepted, 100, 0),
	}
	svc := service.NewLeaderboardService(contestRepo, subRepo)

	entries, stats, err := svc.BuildLeaderboard(context.Background(), "C1")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if entries[0].Username != "alice" || entries[1].Username != "bob" {
		t.Fatalf("unexpected order: %+v", entries)
	}
	if stats.TopScore != 140 {
		t.Fatalf("expected top score 140, got %d", stats.TopScore)
	}
}
