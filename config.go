package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultRejoinSecret = "dev-rejoin-secret"

type Config struct {
	Env            string
	LogLevel       string
	Port           string
	AllowedOrigins []string
	RejoinSecret   string
	SweepInterval  time.Duration
	MaxRoomAge     time.Duration
	RateLimit      int
}

func MustLoadConfig() *Config {
	godotenv.Load()
	return &Config{
		Env:            getEnv("APP_ENV", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "5000"),
		AllowedOrigins: splitCSV(getEnv("FRONTEND_URL", "http://localhost:3000,http://localhost:3001,https://localhost:3000,https://localhost:3001")),
		RejoinSecret:   getEnv("REJOIN_SECRET", defaultRejoinSecret),
		SweepInterval:  mustDuration("SWEEP_INTERVAL", time.Hour),
		MaxRoomAge:     mustDuration("ROOM_MAX_AGE", 24*time.Hour),
		RateLimit:      mustInt("RATE_LIMIT", 60),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		panic(key + " must be a positive duration, got " + strconv.Quote(v))
	}
	return d
}

func mustInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		panic(key + " must be a positive integer, got " + strconv.Quote(v))
	}
	return i
}

func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
