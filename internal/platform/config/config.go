package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string
	// Device keys the handset state in shared stores.
	Device string

	AuthDisabled  bool
	JWTSigningKey string
	TokenIssuer   string
	TokenAudience string
	TokenTTL      time.Duration

	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	SOS      SOSConfig
	Sensor   SensorConfig
}

// DatabaseConfig holds postgres connection settings. An empty URL selects the in-memory contact store.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds redis connection settings. An empty URL selects the in-memory device store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds broker settings. Empty Brokers disables every kafka-backed component.
type KafkaConfig struct {
	Brokers           string
	GroupID           string
	SignalTopic       string
	SensorSampleTopic string
	SMSOutboxTopic    string
}

// SOSConfig tunes the dispatcher and trigger bus.
type SOSConfig struct {
	SMSTransport  string // "log" or "kafka"
	Coalesce      bool
	TriggerBuffer int
}

// SensorConfig tunes shake detection.
type SensorConfig struct {
	ShakeThresholdG float64
	ShakeCount      int
}

const (
	SMSTransportLog   = "log"
	SMSTransportKafka = "kafka"
)

// LoadDotEnv preloads variables from the given .env file when it exists.
// Variables already present in the environment win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:        getEnv("HELPAPP_ADDR", ":8080"),
		Environment: getEnv("HELPAPP_ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Device:      getEnv("HELPAPP_DEVICE", "default"),

		AuthDisabled:  getBool("AUTH_DISABLED", false),
		JWTSigningKey: getEnv("JWT_SIGNING_KEY", DevSigningKey),
		TokenIssuer:   getEnv("TOKEN_ISSUER", "helpapp"),
		TokenAudience: getEnv("TOKEN_AUDIENCE", "helpapp-device"),
		TokenTTL:      getDuration("TOKEN_TTL", 30*24*time.Hour),

		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 1),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           os.Getenv("KAFKA_BROKERS"),
			GroupID:           getEnv("KAFKA_GROUP_ID", "helpapp"),
			SignalTopic:       getEnv("SOS_SIGNAL_TOPIC", "sos.signals"),
			SensorSampleTopic: getEnv("SENSOR_SAMPLE_TOPIC", "sensor.samples"),
			SMSOutboxTopic:    getEnv("SMS_OUTBOX_TOPIC", "sms.outbound"),
		},
		SOS: SOSConfig{
			SMSTransport:  strings.ToLower(getEnv("SMS_TRANSPORT", SMSTransportLog)),
			Coalesce:      getBool("SOS_COALESCE", false),
			TriggerBuffer: getInt("TRIGGER_BUFFER", 16),
		},
		Sensor: SensorConfig{
			ShakeThresholdG: getFloat("SHAKE_THRESHOLD_G", 2.7),
			ShakeCount:      getInt("SHAKE_COUNT", 3),
		},
	}
	return cfg
}

// DevSigningKey is used when JWT_SIGNING_KEY is unset. It must be overridden outside development.
const DevSigningKey = "dev-secret-key-change-in-production"

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
