package vault

import (
	"context"
	"errors"
	"testing"

	"legalhub/internal/config"
	"legalhub/internal/testutil"
)

func TestApply(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.APIKey = "from-env"
	cfg.Email.ResendAPIKey = "re_env"

	Apply(cfg, map[string]string{
		KeyLLMAPIKey:    "sk-vault",
		KeyResendAPIKey: "",
		"unrelated":     "x",
	})

	if cfg.LLM.APIKey != "sk-vault" {
		t.Errorf("LLM key = %q, want sk-vault", cfg.LLM.APIKey)
	}
	if cfg.Email.ResendAPIKey != "re_env" {
		t.Errorf("empty secret must not override, got %q", cfg.Email.ResendAPIKey)
	}
}

func TestLoadSecrets_Disabled(t *testing.T) {
	cfg := &config.Config{}
	if err := LoadSecrets(context.Background(), cfg); err != nil {
		t.Errorf("LoadSecrets() error = %v", err)
	}
}

func TestVaultIntegration(t *testing.T) {
	tc := testutil.SetupVault(t)
	ctx := context.Background()

	vcfg := config.VaultConfig{Address: tc.VaultAddr, Token: tc.VaultToken, KVMount: "secret", SecretPath: "legalhub", Enabled: true}
	client, err := NewClient(&vcfg)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if err := client.Health(ctx); err != nil {
		t.Fatalf("Health() error = %v", err)
	}

	if _, err := client.GetSecret(ctx, "legalhub"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("GetSecret() before write error = %v, want ErrSecretNotFound", err)
	}

	if err := client.StoreSecret(ctx, "legalhub", map[string]any{
		KeyLLMAPIKey:    "sk-from-vault",
		KeyResendAPIKey: "re_from_vault",
		"ttl":           3600,
	}); err != nil {
		t.Fatalf("StoreSecret() error = %v", err)
	}

	strs, err := client.GetStrings(ctx, "legalhub")
	if err != nil {
		t.Fatalf("GetStrings() error = %v", err)
	}
	if _, ok := strs["ttl"]; ok {
		t.Error("non-string values must be dropped")
	}

	cfg := &config.Config{Vault: vcfg}
	if err := LoadSecrets(ctx, cfg); err != nil {
		t.Fatalf("LoadSecrets() error = %v", err)
	}
	if cfg.LLM.APIKey != "sk-from-vault" || cfg.Email.ResendAPIKey != "re_from_vault" {
		t.Errorf("secrets not applied: llm=%q resend=%q", cfg.LLM.APIKey, cfg.Email.ResendAPIKey)
	}
}
