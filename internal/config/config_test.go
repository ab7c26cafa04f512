package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("SESSION_COOKIE_SECURE", "false")
	t.Setenv("MAX_UPLOAD_SIZE", "1024")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Store.Driver != DriverSQLite {
		t.Errorf("Expected sqlite driver, got %s", cfg.Store.Driver)
	}
	if cfg.Auth.SessionTTL != 45*time.Minute {
		t.Errorf("Expected 45m session TTL, got %s", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.CookieSecure {
		t.Error("Expected insecure cookie from env override")
	}
	if cfg.Upload.MaxUploadSize != 1024 {
		t.Errorf("Expected max upload 1024, got %d", cfg.Upload.MaxUploadSize)
	}
	if cfg.GenAI.TextModel != "gemini-2.0-flash" {
		t.Errorf("Expected default text model, got %s", cfg.GenAI.TextModel)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
auth:
  admin_password: from-file
genai:
  api_key: file-key
  text_model: gemini-custom
store:
  driver: file
  data_file: /tmp/state.json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("Expected env port to win, got %s", cfg.Server.Port)
	}
	if cfg.Auth.AdminPassword != "from-file" {
		t.Errorf("Expected password from file, got %q", cfg.Auth.AdminPassword)
	}
	if cfg.GenAI.TextModel != "gemini-custom" {
		t.Errorf("Expected text model from file, got %s", cfg.GenAI.TextModel)
	}
	if cfg.Store.DataFile != "/tmp/state.json" {
		t.Errorf("Expected data file from file, got %s", cfg.Store.DataFile)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing password", func(c *Config) { c.Auth.AdminPassword = "" }, true},
		{"missing api key", func(c *Config) { c.GenAI.APIKey = "" }, true},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }, true},
		{"postgres without host", func(c *Config) { c.Store.Driver = DriverPostgres; c.Database.Host = "" }, true},
		{"zero session ttl", func(c *Config) { c.Auth.SessionTTL = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.AdminPassword = "secret"
			cfg.GenAI.APIKey = "key"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestRead_SkipsValidation(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("STORE_DRIVER", "sqlite")

	cfg, err := Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if err := cfg.ValidateStore(); err != nil {
		t.Errorf("Unexpected store error: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected Validate to require the admin password")
	}
}
