package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("EMAIL_PROVIDER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Email.Provider != "none" {
		t.Errorf("Email.Provider = %q, want none", cfg.Email.Provider)
	}
	if cfg.Notification.Timeout != 10*time.Second {
		t.Errorf("Notification.Timeout = %v, want 10s", cfg.Notification.Timeout)
	}
	if cfg.Auth.Audience != "authenticated" {
		t.Errorf("Auth.Audience = %q, want authenticated", cfg.Auth.Audience)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when AUTH_JWT_SECRET is empty")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Auth:         AuthConfig{JWTSecret: "s"},
			Email:        EmailConfig{Provider: "none"},
			Notification: NotificationConfig{Timeout: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"smtp without host", func(c *Config) { c.Email.Provider = "smtp" }, true},
		{"smtp with host", func(c *Config) { c.Email.Provider = "smtp"; c.Email.SMTPHost = "mail" }, false},
		{"unknown provider", func(c *Config) { c.Email.Provider = "pigeon" }, true},
		{"production without db password", func(c *Config) { c.App.Env = "production" }, true},
		{"zero notification timeout", func(c *Config) { c.Notification.Timeout = 0 }, true},
		{"valid admin emails", func(c *Config) { c.Auth.AdminEmails = []string{"boss@test.com"} }, false},
		{"malformed admin email", func(c *Config) { c.Auth.AdminEmails = []string{"boss@test.com", "not-an-email"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetSliceEnv(t *testing.T) {
	t.Setenv("TEST_SLICE", " a, b ,,c ")

	got := getSliceEnv("TEST_SLICE", nil)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("getSliceEnv() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("getSliceEnv()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
