package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"
	"codearena/internal/platform/config"
	"codearena/internal/platform/database"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// seed loads contests, problems, and test cases from a JSON file into
// Postgres. Dev tooling only; the API has no write endpoints for these.

type seedTestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	IsSample       bool   `json:"is_sample"`
}

type seedProblem struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Difficulty  string         `json:"difficulty"`
	TestCases   []seedTestCase `json:"test_cases"`
}

type seedContest struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Problems    []seedProblem `json:"problems"`
}

func main() {
	file := flag.String("file", "scripts/seed_data.json", "path to seed data JSON")
	flag.Parse()

	config.Load()
	database.Connect()
	defer database.Close()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Could not read seed file %s: %v", *file, err)
	}

	var contests []seedContest
	if err := json.Unmarshal(data, &contests); err != nil {
		log.Fatalf("Could not parse seed file: %v", err)
	}

	ctx := context.Background()
	contestRepo := repository.NewPgContestRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)

	for _, sc := range contests {
		contest := &model.Contest{
			ID:          orUUID(sc.ID),
			Name:        sc.Name,
			Description: sc.Description,
			StartTime:   sc.StartTime,
			EndTime:     sc.EndTime,
		}
		if err := contestRepo.CreateContest(ctx, contest); err != nil {
			log.Fatalf("Could not create contest %s: %v", contest.Name, err)
		}

		for i, sp := range sc.Problems {
			problem := &model.Problem{
				ID:          orUUID(sp.ID),
				ContestID:   contest.ID,
				Title:       sp.Title,
				Slug:        slug.Make(sp.Title),
				Description: sp.Description,
				Difficulty:  model.ProblemDifficulty(sp.Difficulty),
				SortOrder:   i,
			}
			if err := problemRepo.CreateProblem(ctx, problem); err != nil {
				log.Fatalf("Could not create problem %s: %v", problem.Title, err)
			}

			for j, stc := range sp.TestCases {
				tc := &model.TestCase{
					ID:             uuid.NewString(),
					ProblemID:      problem.ID,
					Input:          stc.Input,
					ExpectedOutput: stc.ExpectedOutput,
					IsSample:       stc.IsSample,
					SortOrder:      j,
				}
				if err := problemRepo.CreateTestCase(ctx, tc); err != nil {
					log.Fatalf("Could not create test case for %s: %v", problem.Title, err)
				}
			}
		}
		log.Printf("Seeded contest %s (%d problems)", contest.Name, len(sc.Problems))
	}
}

func orUUID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
