package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MinSimilarityOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Matching.DefaultMinSimilarity = 101

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for min similarity above 100")
	}
}

func TestValidate_DefaultRadiusAboveMax(t *testing.T) {
	cfg := validConfig()
	cfg.Matching.DefaultRadiusKm = 200
	cfg.Matching.MaxRadiusKm = 100

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default radius above max")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()

	if cfg.Matching.DefaultRadiusKm != 10 {
		t.Errorf("default radius = %v, want 10", cfg.Matching.DefaultRadiusKm)
	}
	if cfg.Matching.DefaultMinSimilarity != 30 {
		t.Errorf("default min similarity = %d, want 30", cfg.Matching.DefaultMinSimilarity)
	}
	if cfg.Analysis.MaxImageBytes != 8<<20 {
		t.Errorf("max image bytes = %d", cfg.Analysis.MaxImageBytes)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("DISHSCOUT_TEST_KEY", "secret")
	defer os.Unsetenv("DISHSCOUT_TEST_KEY")

	tests := []struct {
		in   string
		want string
	}{
		{"api_key: ${DISHSCOUT_TEST_KEY}", "api_key: secret"},
		{"port: ${DISHSCOUT_TEST_MISSING:-8080}", "port: 8080"},
		{"plain: value", "plain: value"},
	}
	for _, tc := range tests {
		if got := string(expandEnvVars([]byte(tc.in))); got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
