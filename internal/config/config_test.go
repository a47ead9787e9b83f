package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("MIRROR_URL", "")
	t.Setenv("MIRROR_DISABLED", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "9090")
	}
	if cfg.MirrorURL != "http://localhost:9090" {
		t.Errorf("MirrorURL = %q, want mirror to own port", cfg.MirrorURL)
	}
	if cfg.MirrorTimeout != 5*time.Second {
		t.Errorf("MirrorTimeout = %v, want 5s", cfg.MirrorTimeout)
	}
	if cfg.DataBackend != "file" {
		t.Errorf("DataBackend = %q, want file", cfg.DataBackend)
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy should default to false")
	}
	if cfg.RateLimit != 60 {
		t.Errorf("RateLimit = %d, want 60", cfg.RateLimit)
	}
}

func TestLoadTrustProxy(t *testing.T) {
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("RATE_LIMIT", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.TrustProxy {
		t.Error("TrustProxy = false, want true")
	}
	if cfg.RateLimit != 10 {
		t.Errorf("RateLimit = %d, want 10", cfg.RateLimit)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		wantURL string
	}{
		{
			name:    "mirror disabled clears url",
			cfg:     Config{ServerPort: "8080", DataBackend: "file", ProgressStore: "sql", MirrorURL: "http://example.com", MirrorDisabled: true},
			wantURL: "",
		},
		{
			name:    "trailing slash trimmed",
			cfg:     Config{ServerPort: "8080", DataBackend: "sql", ProgressStore: "file", MirrorURL: "http://backup.local:8080/"},
			wantURL: "http://backup.local:8080",
		},
		{
			name:    "unknown data backend",
			cfg:     Config{ServerPort: "8080", DataBackend: "s3", ProgressStore: "sql"},
			wantErr: true,
		},
		{
			name:    "unknown progress store",
			cfg:     Config{ServerPort: "8080", DataBackend: "file", ProgressStore: "redis"},
			wantErr: true,
		},
		{
			name:    "postgres without url",
			cfg:     Config{ServerPort: "8080", DataBackend: "file", ProgressStore: "sql", DatabaseType: "postgres"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.normalize()
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.MirrorURL != tt.wantURL {
				t.Errorf("MirrorURL = %q, want %q", cfg.MirrorURL, tt.wantURL)
			}
		})
	}
}

func TestNotificationsEnabled(t *testing.T) {
	cfg := Config{SESFromEmail: "noreply@example.com"}
	if cfg.NotificationsEnabled() {
		t.Error("notifications should be disabled without a recipient")
	}
	cfg.NotifyEmail = "learner@example.com"
	if !cfg.NotificationsEnabled() {
		t.Error("notifications should be enabled with sender and recipient")
	}
}
