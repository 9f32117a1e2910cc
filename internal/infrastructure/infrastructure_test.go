package infrastructure_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/cold/internal/config"
	"github.com/JaimeStill/cold/internal/infrastructure"
	"github.com/JaimeStill/cold/pkg/database"
	"github.com/JaimeStill/cold/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=coldstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/coldstore;"

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "cold",
			User:            "cold",
			Password:        "cold",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "cold",
			ConnectionString: azuriteConnString,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
	if infra.Metrics == nil {
		t.Error("Metrics is nil")
	}

	conn := infra.Database.Connection()
	if conn == nil {
		t.Fatal("Database.Connection() returned nil")
	}
	conn.Close()
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.ConnectionString = "not-a-connection-string"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}

func TestMetricsHandler(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	infra.Metrics.ObserveThemeRetry()

	rec := httptest.NewRecorder()
	infra.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "theme_retries_total 1") {
		t.Error("theme retry counter missing from exposition")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LoggingConfig
		level slog.Level
	}{
		{"debug text", config.LoggingConfig{Level: "debug", Format: "text"}, slog.LevelDebug},
		{"warn json", config.LoggingConfig{Level: "warn", Format: "json"}, slog.LevelWarn},
		{"unparsed level", config.LoggingConfig{Level: "loud"}, slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := infrastructure.NewLogger(&tt.cfg)
			if !logger.Enabled(t.Context(), tt.level) {
				t.Errorf("level %s should be enabled", tt.level)
			}
			if tt.level > slog.LevelDebug && logger.Enabled(t.Context(), tt.level-4) {
				t.Errorf("level %s should be disabled", tt.level-4)
			}
		})
	}
}
