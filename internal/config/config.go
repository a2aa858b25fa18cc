package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// CompletionPolicy selects how participant completion is decided.
const (
	PolicyCounter     = "counter"
	PolicyAnnotations = "annotations"
)

// Assignment strategies.
const (
	StrategyRotation = "rotation"
	StrategyRandom   = "random"
)

type Config struct {
	Port          string
	GinMode       string
	MongoURI      string
	MongoDatabase string
	RabbitMQURI   string
	EventExchange string
	RedisURI      string
	AllowOrigins  string

	// Gap generation subprocess
	PythonBin     string
	GapRunnerPath string
	PassagesPath  string
	GapTimeoutSec int

	// Study parameters
	TestsPerUser       int    // assignment array length N
	PassageCount       int    // passage catalogue size, ids 1..PassageCount
	CompletionPolicy   string // "counter" or "annotations"
	AnnotationTarget   int    // threshold for the annotations policy
	AssignmentStrategy string // "rotation" or "random"
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:          getEnvOrDefault("PORT", "6677"),
		GinMode:       getEnvOrDefault("GIN_MODE", "debug"),
		MongoURI:      getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGO_DATABASE", "cloze_study"),
		RabbitMQURI:   getEnvOrDefault("RABBITMQ_URI", ""),
		EventExchange: getEnvOrDefault("RABBITMQ_EXCHANGE", ""),
		RedisURI:      getEnvOrDefault("REDIS_URI", ""),
		AllowOrigins:  getEnvOrDefault("ALLOW_ORIGINS", "http://localhost:3000"),

		PythonBin:     getEnvOrDefault("PYTHON_BIN", "python3"),
		GapRunnerPath: getEnvOrDefault("GAP_RUNNER_PATH", "python/gap_methods/method_runner.py"),
		PassagesPath:  getEnvOrDefault("PASSAGES_PATH", "data/passages.jsonl"),
		GapTimeoutSec: getEnvIntOrDefault("GAP_TIMEOUT_SECONDS", 60),

		TestsPerUser:       getEnvIntOrDefault("STUDY_TESTS_PER_USER", 3),
		PassageCount:       getEnvIntOrDefault("STUDY_PASSAGE_COUNT", 16),
		CompletionPolicy:   getEnvOrDefault("STUDY_COMPLETION_POLICY", PolicyCounter),
		AnnotationTarget:   getEnvIntOrDefault("STUDY_ANNOTATION_TARGET", 6),
		AssignmentStrategy: getEnvOrDefault("STUDY_ASSIGNMENT_STRATEGY", StrategyRotation),
	}

	if AppConfig.CompletionPolicy != PolicyCounter && AppConfig.CompletionPolicy != PolicyAnnotations {
		log.Printf("Unknown completion policy %q, falling back to %q", AppConfig.CompletionPolicy, PolicyCounter)
		AppConfig.CompletionPolicy = PolicyCounter
	}
	if AppConfig.AssignmentStrategy != StrategyRotation && AppConfig.AssignmentStrategy != StrategyRandom {
		log.Printf("Unknown assignment strategy %q, falling back to %q", AppConfig.AssignmentStrategy, StrategyRotation)
		AppConfig.AssignmentStrategy = StrategyRotation
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Invalid value %q for %s, using default %d", value, key, defaultValue)
		return defaultValue
	}
	return n
}
