package config

import (
	"os"
	"strconv"
)

// Backend names accepted for DB_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendRedis    = "redis"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds MongoDB connection settings for the document backend.
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis connection settings. Redis serves both as the
// key-value persistence backend and as the deletion event bus.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig holds presigned URL and timeout settings for the storage client.
type StorageConfig struct {
	UploadURLExpirySec   int
	DownloadURLExpirySec int
	CallTimeoutSec       int
}

// EventsConfig controls the asynchronous flows: the storage-completion
// consumer and the best-effort purge of deleted objects.
type EventsConfig struct {
	ConsumeStorageEvents bool
	PurgeOnDelete        bool
	DeleteChannel        string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables once at startup and injected
// into constructors; nothing reads ambient process state after that.
type AppConfig struct {
	AppHost   string
	Port      string
	DBBackend string
	Database  DatabaseConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	Storage   StorageConfig
	Events    EventsConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:   getEnv("APP_HOST", "localhost:8080"),
		Port:      getEnv("PORT", "8080"),
		DBBackend: getEnv("DB_BACKEND", BackendPostgres),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DATABASE", "aurasage"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Storage: StorageConfig{
			UploadURLExpirySec:   getEnvInt("STORAGE_UPLOAD_URL_EXPIRY_SEC", 900),
			DownloadURLExpirySec: getEnvInt("STORAGE_DOWNLOAD_URL_EXPIRY_SEC", 300),
			CallTimeoutSec:       getEnvInt("STORAGE_CALL_TIMEOUT_SEC", 10),
		},
		Events: EventsConfig{
			ConsumeStorageEvents: getEnvBool("EVENTS_CONSUME_STORAGE", true),
			PurgeOnDelete:        getEnvBool("EVENTS_PURGE_ON_DELETE", true),
			DeleteChannel:        getEnv("EVENTS_DELETE_CHANNEL", "document.deleted"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
