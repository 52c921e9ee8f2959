package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Directory backends.
const (
	BackendDynamo    = "dynamo"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

// Push transports.
const (
	TransportFCM = "fcm"
	TransportSNS = "sns"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	AWSRegion       string
	AWSEndpointURL  string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID  string
	AWSSecretKey    string
	DynamoTables    DynamoTables
	S3BucketName    string
	S3ArchivePrefix string
	SNSRegion       string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	AllowedOrigins    []string // CORS allowed origins

	RadiusMeters     float64
	DirectoryBackend string
	PushTransport    string

	FirebaseCredentialsPath string
	FirebaseProjectID       string
	FirestoreCollections    FirestoreCollections

	DBConn string

	RedisURL  string
	DedupeTTL time.Duration

	RabbitMQURL   string
	HazardQueue   string
	HazardDLQ     string
	QueuePrefetch int

	TriggerRatePerSec float64
	TriggerBurst      int
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Responders string
	Users      string
	Hazards    string
	Dispatches string
}

// FirestoreCollections names the recipient collections of the Firebase schema.
type FirestoreCollections struct {
	Responders string
	Users      string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Responders: getEnv("DYNAMO_TABLE_RESPONDERS", "responders"),
			Users:      getEnv("DYNAMO_TABLE_USERS", "users"),
			Hazards:    getEnv("DYNAMO_TABLE_HAZARDS", "hazards"),
			Dispatches: getEnv("DYNAMO_TABLE_DISPATCHES", "dispatches"),
		},
		S3BucketName:    getEnv("S3_BUCKET_NAME", ""),
		S3ArchivePrefix: getEnv("S3_ARCHIVE_PREFIX", "dispatches"),
		SNSRegion:       getEnv("SNS_REGION", "us-east-1"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		RadiusMeters:     getEnvFloat("RADIUS_METERS", 5000),
		DirectoryBackend: strings.ToLower(getEnv("DIRECTORY_BACKEND", BackendDynamo)),
		PushTransport:    strings.ToLower(getEnv("PUSH_TRANSPORT", TransportFCM)),

		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirestoreCollections: FirestoreCollections{
			Responders: getEnv("FIRESTORE_COLLECTION_RESPONDERS", "responders"),
			Users:      getEnv("FIRESTORE_COLLECTION_USERS", "users"),
		},

		DBConn: getEnv("DB_CONN", ""),

		RedisURL:  getEnv("REDIS_URL", ""),
		DedupeTTL: time.Duration(getEnvInt("DEDUPE_TTL_MINUTES", 60)) * time.Minute,

		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		HazardQueue:   getEnv("HAZARD_QUEUE", "hazards.created"),
		HazardDLQ:     getEnv("HAZARD_DLQ", "hazards.created.dlq"),
		QueuePrefetch: getEnvInt("QUEUE_PREFETCH", 10),

		TriggerRatePerSec: getEnvFloat("TRIGGER_RATE_PER_SEC", 5),
		TriggerBurst:      getEnvInt("TRIGGER_BURST", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
