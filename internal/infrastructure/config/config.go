package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	pkgpostgres "github.com/bibbank/cardiorisk/pkg/postgres"
)

// ConfigFileEnv names the environment variable pointing at an optional YAML
// config file. Values from the environment override values from the file.
const ConfigFileEnv = "CARDIO_CONFIG_FILE"

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host              string `yaml:"host"`
	User              string `yaml:"user"`
	Password          string `yaml:"password"`
	Name              string `yaml:"name"`
	SSLMode           string `yaml:"ssl_mode"`
	Port              int    `yaml:"port"`
	MaxConns          int    `yaml:"max_conns"`
	MigrationsEnabled bool   `yaml:"migrations_enabled"`
}

// KafkaConfig holds broker and topic settings.
type KafkaConfig struct {
	ConsumerGroup     string   `yaml:"consumer_group"`
	EventsTopic       string   `yaml:"events_topic"`
	MeasurementsTopic string   `yaml:"measurements_topic"`
	SASLMechanism     string   `yaml:"sasl_mechanism"`
	SASLUsername      string   `yaml:"sasl_username"`
	SASLPassword      string   `yaml:"sasl_password"`
	Brokers           []string `yaml:"brokers"`
	// MaxHandlerAttempts bounds retries of a failing measurement message.
	MaxHandlerAttempts int  `yaml:"max_handler_attempts"`
	ConsumerEnabled    bool `yaml:"consumer_enabled"`
	TLS                bool `yaml:"tls"`
}

// AuthConfig holds JWT validation settings.
type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret"`
	PublicKeyPEM string `yaml:"public_key_pem"`
	Issuer       string `yaml:"issuer"`
}

// TLSConfig holds the gRPC server certificate paths. TLS is off when either is empty.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// Enabled reports whether both certificate paths are set.
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

// TelemetryConfig holds logging, tracing and metrics settings.
type TelemetryConfig struct {
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	// SampleRatio is the fraction of traces kept, between 0 and 1.
	SampleRatio    float64 `yaml:"sample_ratio"`
	TracingEnabled bool    `yaml:"tracing_enabled"`
	OTLPInsecure   bool    `yaml:"otlp_insecure"`
}

// EngineConfig holds risk engine settings.
type EngineConfig struct {
	// Locale selects the language of risk labels ("id" or "en").
	Locale            string `yaml:"locale"`
	ImportConcurrency int    `yaml:"import_concurrency"`
}

// Config holds all configuration for the cardio risk service.
type Config struct {
	ServiceName    string          `yaml:"service_name"`
	Environment    string          `yaml:"environment"`
	Auth           AuthConfig      `yaml:"auth"`
	TLS            TLSConfig       `yaml:"tls"`
	Telemetry      TelemetryConfig `yaml:"telemetry"`
	Engine         EngineConfig    `yaml:"engine"`
	Kafka          KafkaConfig     `yaml:"kafka"`
	DB             DatabaseConfig  `yaml:"database"`
	GRPCPort       int             `yaml:"grpc_port"`
	HTTPPort       int             `yaml:"http_port"`
	GRPCReflection bool            `yaml:"grpc_reflection"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		ServiceName: "cardio-risk-service",
		Environment: "development",
		GRPCPort:    9090,
		HTTPPort:    8080,
		DB: DatabaseConfig{
			Host:              "localhost",
			Port:              5432,
			User:              "cardio",
			Name:              "cardio_risk",
			SSLMode:           "disable",
			MaxConns:          10,
			MigrationsEnabled: true,
		},
		Kafka: KafkaConfig{
			Brokers:            []string{"localhost:9092"},
			ConsumerGroup:      "cardio-risk-service",
			EventsTopic:        "cardio.events",
			MeasurementsTopic:  "cardio.measurements.submitted",
			MaxHandlerAttempts: 3,
		},
		Auth: AuthConfig{
			Issuer: "cardio-risk",
		},
		Telemetry: TelemetryConfig{
			LogLevel:     "info",
			LogFormat:    "json",
			OTLPEndpoint: "localhost:4317",
			OTLPInsecure: true,
			SampleRatio:  1,
		},
		Engine: EngineConfig{
			Locale:            "id",
			ImportConcurrency: 8,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// CARDIO_CONFIG_FILE, and finally environment variables.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.ServiceName = getEnv("SERVICE_NAME", cfg.ServiceName)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.GRPCPort = getEnvInt("GRPC_PORT", cfg.GRPCPort)
	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCReflection = getEnvBool("GRPC_REFLECTION", cfg.GRPCReflection)

	cfg.DB.Host = getEnv("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = getEnvInt("DB_PORT", cfg.DB.Port)
	cfg.DB.User = getEnv("DB_USER", cfg.DB.User)
	cfg.DB.Password = getEnv("DB_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = getEnv("DB_NAME", cfg.DB.Name)
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", cfg.DB.SSLMode)
	cfg.DB.MaxConns = getEnvInt("DB_MAX_CONNS", cfg.DB.MaxConns)
	cfg.DB.MigrationsEnabled = getEnvBool("DB_MIGRATIONS_ENABLED", cfg.DB.MigrationsEnabled)

	cfg.Kafka.Brokers = getEnvList("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.ConsumerGroup = getEnv("KAFKA_CONSUMER_GROUP", cfg.Kafka.ConsumerGroup)
	cfg.Kafka.EventsTopic = getEnv("KAFKA_EVENTS_TOPIC", cfg.Kafka.EventsTopic)
	cfg.Kafka.MeasurementsTopic = getEnv("KAFKA_MEASUREMENTS_TOPIC", cfg.Kafka.MeasurementsTopic)
	cfg.Kafka.MaxHandlerAttempts = getEnvInt("KAFKA_MAX_HANDLER_ATTEMPTS", cfg.Kafka.MaxHandlerAttempts)
	cfg.Kafka.ConsumerEnabled = getEnvBool("KAFKA_CONSUMER_ENABLED", cfg.Kafka.ConsumerEnabled)
	cfg.Kafka.TLS = getEnvBool("KAFKA_TLS", cfg.Kafka.TLS)
	cfg.Kafka.SASLMechanism = getEnv("KAFKA_SASL_MECHANISM", cfg.Kafka.SASLMechanism)
	cfg.Kafka.SASLUsername = getEnv("KAFKA_SASL_USERNAME", cfg.Kafka.SASLUsername)
	cfg.Kafka.SASLPassword = getEnv("KAFKA_SASL_PASSWORD", cfg.Kafka.SASLPassword)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.PublicKeyPEM = getEnv("JWT_PUBLIC_KEY", cfg.Auth.PublicKeyPEM)
	cfg.Auth.Issuer = getEnv("JWT_ISSUER", cfg.Auth.Issuer)

	cfg.TLS.CertFile = getEnv("TLS_CERT_FILE", cfg.TLS.CertFile)
	cfg.TLS.KeyFile = getEnv("TLS_KEY_FILE", cfg.TLS.KeyFile)

	cfg.Telemetry.LogLevel = getEnv("LOG_LEVEL", cfg.Telemetry.LogLevel)
	cfg.Telemetry.LogFormat = getEnv("LOG_FORMAT", cfg.Telemetry.LogFormat)
	cfg.Telemetry.TracingEnabled = getEnvBool("TRACING_ENABLED", cfg.Telemetry.TracingEnabled)
	cfg.Telemetry.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
	cfg.Telemetry.OTLPInsecure = getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Telemetry.OTLPInsecure)
	cfg.Telemetry.SampleRatio = getEnvFloat("OTEL_TRACES_SAMPLER_RATIO", cfg.Telemetry.SampleRatio)

	cfg.Engine.Locale = getEnv("RISK_LABEL_LOCALE", cfg.Engine.Locale)
	cfg.Engine.ImportConcurrency = getEnvInt("IMPORT_CONCURRENCY", cfg.Engine.ImportConcurrency)
}

// Validate reports every configuration problem found.
func (c Config) Validate() error {
	var errs []error

	if !validPort(c.GRPCPort) {
		errs = append(errs, fmt.Errorf("grpc_port %d out of range", c.GRPCPort))
	}
	if !validPort(c.HTTPPort) {
		errs = append(errs, fmt.Errorf("http_port %d out of range", c.HTTPPort))
	}
	if c.GRPCPort == c.HTTPPort {
		errs = append(errs, fmt.Errorf("grpc_port and http_port must differ"))
	}
	if c.DB.Host == "" || c.DB.Name == "" {
		errs = append(errs, fmt.Errorf("database host and name are required"))
	}
	if c.IsProduction() && c.DB.Password == "" {
		errs = append(errs, fmt.Errorf("DB_PASSWORD environment variable is required"))
	}
	if c.Auth.JWTSecret == "" && c.Auth.PublicKeyPEM == "" {
		errs = append(errs, fmt.Errorf("JWT_SECRET or JWT_PUBLIC_KEY is required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, fmt.Errorf("at least one kafka broker is required"))
	}
	if c.Kafka.EventsTopic == "" {
		errs = append(errs, fmt.Errorf("kafka events topic is required"))
	}
	if c.Kafka.ConsumerEnabled && c.Kafka.MeasurementsTopic == "" {
		errs = append(errs, fmt.Errorf("kafka measurements topic is required when the consumer is enabled"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, fmt.Errorf("tls cert_file and key_file must be set together"))
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("sample_ratio must be within [0, 1]"))
	}
	if c.Engine.Locale != "id" && c.Engine.Locale != "en" {
		errs = append(errs, fmt.Errorf("locale %q is not supported", c.Engine.Locale))
	}
	if c.Engine.ImportConcurrency < 1 {
		errs = append(errs, fmt.Errorf("import_concurrency must be at least 1"))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Postgres maps the settings onto the shared pool configuration.
func (d DatabaseConfig) Postgres() pkgpostgres.Config {
	return pkgpostgres.Config{
		Host:     d.Host,
		Port:     d.Port,
		User:     d.User,
		Password: d.Password,
		Database: d.Name,
		SSLMode:  d.SSLMode,
		MaxConns: int32(d.MaxConns),
	}
}

// DSN returns the PostgreSQL connection string. Pool sizing is not part of
// it so the same string can drive migrations.
func (d DatabaseConfig) DSN() string {
	return d.Postgres().DSN()
}

// GRPCAddr returns the full gRPC listen address.
func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// HTTPAddr returns the full HTTP listen address.
func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
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

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
