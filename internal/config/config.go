package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI  string
	MongoDB   string
	NATSURL   string
	RedisAddr string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	HTTPPort    string
	MetricsPort string

	JWTSecret string
	TokenTTL  time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string

	// SnapshotPollInterval is the fallback reload cadence when MongoDB
	// change streams are unavailable (standalone server, no oplog).
	SnapshotPollInterval time.Duration
}

func Load() (*Config, error) {
	// .env is optional; environment variables are the primary source.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	minioUseSSL, err := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	if err != nil {
		log.Printf("invalid MINIO_USE_SSL value, defaulting to false: %v", err)
		minioUseSSL = false
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		log.Printf("invalid SMTP_PORT value, defaulting to 587: %v", err)
		smtpPort = 587
	}

	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		log.Printf("invalid TOKEN_TTL value, defaulting to 24h: %v", err)
		tokenTTL = 24 * time.Hour
	}

	pollInterval, err := time.ParseDuration(getEnv("SNAPSHOT_POLL_INTERVAL", "30s"))
	if err != nil {
		log.Printf("invalid SNAPSHOT_POLL_INTERVAL value, defaulting to 30s: %v", err)
		pollInterval = 30 * time.Second
	}

	cfg := &Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "swipebay"),
		NATSURL:   getEnv("NATS_URL", "nats://localhost:4222"),
		RedisAddr: getEnv("REDIS_ADDRESS", "localhost:6379"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "listing-photos"),
		MinIOUseSSL:    minioUseSSL,

		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  tokenTTL,

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     smtpPort,
		SMTPEmail:    getEnv("SMTP_EMAIL", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SnapshotPollInterval: pollInterval,
	}

	if cfg.JWTSecret == "" {
		log.Fatal("FATAL: JWT_SECRET is not set. This is required for security.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
