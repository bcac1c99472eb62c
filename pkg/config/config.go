package config

import (
	"os"
	"time"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	CloudinaryURL           string
	CloudinaryFolder        string
	RedisHost               string
	RedisPort               string
	RedisPassword           string
	BadgeCacheTTL           time.Duration
	SweepInterval           time.Duration
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		CloudinaryURL:           getEnv("CLOUDINARY_URL", ""),
		CloudinaryFolder:        getEnv("CLOUDINARY_FOLDER", "videotube"),
		RedisHost:               getEnv("REDIS_HOST", ""),
		RedisPort:               getEnv("REDIS_PORT", "6379"),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		BadgeCacheTTL:           getDuration("BADGE_CACHE_TTL", 30*time.Second),
		SweepInterval:           getDuration("NOTIFICATION_SWEEP_INTERVAL", 15*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
