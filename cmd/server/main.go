package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codearena/internal/api"
	"codearena/internal/app/grader"
	"codearena/internal/app/judge"
	"codearena/internal/app/service"
	"codearena/internal/app/worker"
	"codearena/internal/domain/repository"
	"codearena/internal/platform/config"
	"codearena/internal/platform/database"
	"codearena/internal/platform/queue"

	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Could not initialize logger: %v", err)
	}
	defer logger.Sync()

	// 2. Initialize Database
	database.Connect()
	defer database.Close()
	logger.Info("database connected")

	// 3. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	logger.Info("redis connected")

	// 4. Initialize Repositories
	contestRepo := repository.NewPgContestRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)

	// 5. Initialize Judge Client & Grader
	judgeClient := judge.NewClientFromConfig()
	submissionGrader := grader.New(judgeClient, logger)

	// 6. Initialize Services
	contestService := service.NewContestService(contestRepo, problemRepo)
	problemService := service.NewProblemService(problemRepo)
	submissionService := service.NewSubmissionService(submissionRepo, problemRepo,
		queue.RDB, config.AppConfig.GradingQueueName, logger)
	leaderboardService := service.NewLeaderboardService(contestRepo, submissionRepo)

	// 7. Initialize Grading Worker (background goroutines)
	gradingWorker := worker.NewGradingWorker(queue.RDB, config.AppConfig.GradingQueueName,
		config.AppConfig.GradingWorkers, problemRepo, submissionRepo, submissionGrader, logger)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	workerDone := make(chan struct{})
	go func() {
		gradingWorker.Start(workerCtx)
		close(workerDone)
	}()

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(contestService, problemService, submissionService, leaderboardService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("port", config.AppConfig.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not listen", zap.Error(err))
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info("shutting down server")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}

	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		logger.Warn("grading worker did not stop before shutdown deadline")
	}

	logger.Info("server and worker stopped gracefully")
}
