package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GradingQueueName string
	GradingWorkers   int

	JudgeBaseURL      string
	JudgeAPIKey       string
	JudgeAPIHost      string
	JudgePollAttempts int
	JudgePollInterval time.Duration
	JudgeHTTPTimeout  time.Duration
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:           getEnv("API_PORT", "8080"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "user"),
		DBPassword:        getEnv("DB_PASSWORD", "password"),
		DBName:            getEnv("DB_NAME", "codearena_db"),
		DBSslMode:         getEnv("DB_SSLMODE", "disable"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		GradingQueueName:  getEnv("GRADING_QUEUE_NAME", "grading_queue"),
		GradingWorkers:    getEnvAsInt("GRADING_WORKERS", 2),
		JudgeBaseURL:      getEnv("JUDGE_BASE_URL", "https://judge0-ce.p.rapidapi.com"),
		JudgeAPIKey:       getEnv("JUDGE_API_KEY", ""),
		JudgeAPIHost:      getEnv("JUDGE_API_HOST", "judge0-ce.p.rapidapi.com"),
		JudgePollAttempts: getEnvAsInt("JUDGE_POLL_ATTEMPTS", 30),
		JudgePollInterval: time.Duration(getEnvAsInt("JUDGE_POLL_INTERVAL_MS", 500)) * time.Millisecond,
		JudgeHTTPTimeout:  time.Duration(getEnvAsInt("JUDGE_HTTP_TIMEOUT_MS", 10000)) * time.Millisecond,
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
