package config

import (
	"path/filepath"
	"testing"
	"time"
)

func validTestConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: t.TempDir()},
		Server: ServerConfig{
			Name:         "Test Server",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Import: ImportConfig{
			MaxRows:           1000,
			SheetFetchTimeout: 20 * time.Second,
			MaxUploadBytes:    2 << 20,
		},
		Booking: BookingConfig{RatePerMinute: 30, RateBurst: 10},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validTestConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_Environment(t *testing.T) {
	tests := []struct {
		env     string
		wantErr bool
	}{
		{"development", false},
		{"staging", false},
		{"production", false},
		{"", true},
		{"prod", true},
		{"DEVELOPMENT", true},
	}

	for _, tt := range tests {
		cfg := validTestConfig(t)
		cfg.App.Environment = tt.env
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate with env=%q: err=%v, wantErr=%v", tt.env, err, tt.wantErr)
		}
	}
}

func TestValidate_LogLevel(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"WARN", false}, // case-insensitive
		{"verbose", true},
		{"", true},
	}

	for _, tt := range tests {
		cfg := validTestConfig(t)
		cfg.Logger.Level = tt.level
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate with level=%q: err=%v, wantErr=%v", tt.level, err, tt.wantErr)
		}
	}
}

func TestValidate_ImportMaxRows(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.Import.MaxRows = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero import max rows")
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := validTestConfig(t)
	want := filepath.Join(cfg.Data.BasePath, "flowgrid.db")
	if got := cfg.DatabasePath(); got != want {
		t.Errorf("DatabasePath: got %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != "/default/path" {
		t.Errorf("expandPath empty: got %q", got)
	}

	got, err = expandPath("/abs/path/../path", "")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != "/abs/path" {
		t.Errorf("expandPath clean: got %q", got)
	}
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("FLOWGRID_TEST_KEY", "from-env")

	if got := getConfigValue("from-flag", "FLOWGRID_TEST_KEY", "default"); got != "from-flag" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := getConfigValue("", "FLOWGRID_TEST_KEY", "default"); got != "from-env" {
		t.Errorf("env should win over default, got %q", got)
	}
	if got := getConfigValue("", "FLOWGRID_MISSING_KEY", "default"); got != "default" {
		t.Errorf("default fallback, got %q", got)
	}
}
