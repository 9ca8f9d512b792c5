package config

import "testing"

func validConfig() Config {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_DefaultLimitExceedsMax(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultLimit = 200
	cfg.Search.MaxLimit = 100

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for default_limit > max_limit")
	}
}

func TestValidate_LocalDimensionsMustDiffer(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Remote.Dimensions = 384
	cfg.Embedding.Local.Dimensions = 384

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for matching local/remote dimensions")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected read timeout 10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Database.KeyPrefix != "knowsearch:" {
		t.Errorf("expected key prefix knowsearch:, got %q", cfg.Database.KeyPrefix)
	}
	if cfg.Embedding.Remote.TimeoutSec != 5 {
		t.Errorf("expected remote timeout 5, got %d", cfg.Embedding.Remote.TimeoutSec)
	}
	if cfg.Embedding.Local.Dimensions != 384 {
		t.Errorf("expected local dimensions 384, got %d", cfg.Embedding.Local.Dimensions)
	}
	if cfg.Search.SnippetLength != 200 {
		t.Errorf("expected snippet length 200, got %d", cfg.Search.SnippetLength)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("KNOWSEARCH_TEST_KEY", "secret")

	in := []byte("api_key: ${KNOWSEARCH_TEST_KEY}\nbase_url: ${KNOWSEARCH_TEST_URL:-https://fallback}\n")
	out := string(expandEnvVars(in))

	if out != "api_key: secret\nbase_url: https://fallback\n" {
		t.Errorf("unexpected expansion result: %q", out)
	}
}
