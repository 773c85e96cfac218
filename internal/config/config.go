package config

import (
	"fmt"
	"os"
	"specimenpro/internal/models"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Document DocumentConfig
	QR       QRConfig
	PDF      PDFConfig
	Server   ServerConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Log      LogConfig
}

type DocumentConfig struct {
	Path      string
	Store     string // "json" or "sqlite"
	SQLiteDSN string
}

type QRConfig struct {
	BaseURL         string
	ErrorCorrection string
	PNGSize         int
}

type PDFConfig struct {
	PageSize         string
	Columns          int
	Rows             int
	CellInches       float64
	IncludeNames     bool
	IncludeIDs       bool
	IncludeTitlePage bool
	Workers          int
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisConfig struct {
	Addr string
	TTL  time.Duration
}

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	MockMode bool
	Enabled  bool
}

type LogConfig struct {
	Dir   string
	Level string
}

func Load() *Config {
	return &Config{
		Document: DocumentConfig{
			Path:      getEnv("SPECIMEN_DOCUMENT", "events.json"),
			Store:     strings.ToLower(getEnv("SPECIMEN_STORE", "json")),
			SQLiteDSN: getEnv("SPECIMEN_SQLITE_DSN", "file:specimenpro.db?cache=shared"),
		},
		QR: QRConfig{
			BaseURL:         getEnv("QR_BASE_URL", "https://specimenpro.app"),
			ErrorCorrection: getEnv("QR_ERROR_CORRECTION", "highest"),
			PNGSize:         getEnvInt("QR_PNG_SIZE", 512),
		},
		PDF: PDFConfig{
			PageSize:         getEnv("PDF_PAGE_SIZE", "Letter"),
			Columns:          getEnvInt("PDF_COLUMNS", 3),
			Rows:             getEnvInt("PDF_ROWS", 4),
			CellInches:       getEnvFloat("PDF_CELL_INCHES", 2.0),
			IncludeNames:     getEnvBool("PDF_INCLUDE_NAMES", true),
			IncludeIDs:       getEnvBool("PDF_INCLUDE_IDS", false),
			IncludeTitlePage: getEnvBool("PDF_TITLE_PAGE", true),
			Workers:          getEnvInt("PDF_WORKERS", 4),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", ""),
			TTL:  time.Duration(getEnvInt("REDIS_TTL_MINUTES", 60)) * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers:  splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:    getEnv("KAFKA_TOPIC_CATALOG", "specimenpro.catalog"),
			Enabled:  getEnvBool("KAFKA_ENABLED", false),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
		},
		Log: LogConfig{
			Dir:   getEnv("LOG_DIR", ""),
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Validate checks the values that would otherwise fail deep inside a batch.
func (c *Config) Validate() error {
	var problems []string

	switch c.Document.Store {
	case "json", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("SPECIMEN_STORE must be json or sqlite, got %q", c.Document.Store))
	}
	if c.QR.BaseURL == "" {
		problems = append(problems, "QR_BASE_URL is empty")
	}
	if c.QR.PNGSize < 21 {
		problems = append(problems, fmt.Sprintf("QR_PNG_SIZE must be at least 21, got %d", c.QR.PNGSize))
	}
	if c.PDF.Columns < 1 {
		problems = append(problems, fmt.Sprintf("PDF_COLUMNS must be >= 1, got %d", c.PDF.Columns))
	}
	if c.PDF.Rows < 1 {
		problems = append(problems, fmt.Sprintf("PDF_ROWS must be >= 1, got %d", c.PDF.Rows))
	}
	if c.PDF.CellInches <= 0 {
		problems = append(problems, fmt.Sprintf("PDF_CELL_INCHES must be positive, got %g", c.PDF.CellInches))
	}
	if c.PDF.Workers < 1 {
		problems = append(problems, fmt.Sprintf("PDF_WORKERS must be >= 1, got %d", c.PDF.Workers))
	}
	if c.Kafka.Enabled && !c.Kafka.MockMode && len(c.Kafka.Brokers) == 0 {
		problems = append(problems, "KAFKA_BROKERS is empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", models.ErrInvalidConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
