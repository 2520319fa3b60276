package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type config struct {
	Host          string
	Port          string
	UDPAddr       string
	AdminKey      string
	ScoringConfig string
	SnapshotPath  string
	MaxConns      int
	LogLevel      string
}

func loadConfig() config {
	// .env is optional; real env vars win over it
	_ = godotenv.Load()

	return config{
		Host:          getEnv("SERVER_HOST", "0.0.0.0"),
		Port:          getEnv("SERVER_PORT", "8080"),
		UDPAddr:       getEnv("UDP_ADDR", ":6969"),
		AdminKey:      getEnv("ADMIN_API_KEY", ""),
		ScoringConfig: getEnv("SCORING_CONFIG", "configs/scoring.yaml"),
		SnapshotPath:  getEnv("SNAPSHOT_PATH", ""),
		MaxConns:      getEnvInt("MAX_CONNS", 4096),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
