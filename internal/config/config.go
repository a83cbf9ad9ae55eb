package config

import (
	"os"
	"strconv"
)

type Config struct {
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	HTTPPort      string
	AudioDir      string

	// Quiz defaults
	TotalQuestions int
}

func Load() *Config {
	return &Config{
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DB", "quizagent"),
		RedisAddr:      getEnv("REDIS_URI", "localhost:6379"),
		HTTPPort:       getEnv("PORT", "8080"),
		AudioDir:       getEnv("AUDIO_DIR", "static/audio"),
		TotalQuestions: getEnvInt("QUIZ_TOTAL_QUESTIONS", 3),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}
