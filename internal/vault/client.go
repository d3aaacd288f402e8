package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/vault/api"

	"legalhub/internal/config"
)

// ErrSecretNotFound is returned when the KV path holds no secret
var ErrSecretNotFound = errors.New("secret not found")

// Client wraps HashiCorp Vault API
type Client struct {
	client  *api.Client
	kvMount string
}

// NewClient creates a new Vault client
func NewClient(cfg *config.VaultConfig) (*Client, error) {
	apiCfg := api.DefaultConfig()
	apiCfg.Address = cfg.Address
	apiCfg.Timeout = 10 * time.Second

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)

	mount := cfg.KVMount
	if mount == "" {
		mount = "secret"
	}

	return &Client{client: client, kvMount: mount}, nil
}

// StoreSecret writes data to a KV v2 path
func (c *Client) StoreSecret(ctx context.Context, path string, data map[string]any) error {
	if _, err := c.client.KVv2(c.kvMount).Put(ctx, path, data); err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}
	return nil
}

// GetSecret reads the latest version of a KV v2 secret
func (c *Client) GetSecret(ctx context.Context, path string) (map[string]any, error) {
	secret, err := c.client.KVv2(c.kvMount).Get(ctx, path)
	if errors.Is(err, api.ErrSecretNotFound) {
		return nil, ErrSecretNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return nil, ErrSecretNotFound
	}
	return secret.Data, nil
}

// GetStrings reads a secret and keeps only its string values
func (c *Client) GetStrings(ctx context.Context, path string) (map[string]string, error) {
	data, err := c.GetSecret(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out, nil
}

// Health checks Vault health status
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := c.client.Sys().HealthWithContext(ctx)
	if err != nil {
		return fmt.Errorf("vault health check failed: %w", err)
	}

	if !health.Initialized {
		return fmt.Errorf("vault is not initialized")
	}

	if health.Sealed {
		return fmt.Errorf("vault is sealed")
	}

	return nil
}

// Secret keys overlaid on the configuration by LoadSecrets
const (
	KeyLLMAPIKey    = "llm_api_key"
	KeyResendAPIKey = "resend_api_key"
	KeySMTPPassword = "smtp_password"
	KeyJWTSecret    = "jwt_secret"
	KeyDBPassword   = "db_password"
)

// LoadSecrets overlays secrets from Vault on cfg when Vault is enabled.
// Missing keys leave the environment value in place.
func LoadSecrets(ctx context.Context, cfg *config.Config) error {
	if !cfg.Vault.Enabled {
		return nil
	}

	client, err := NewClient(&cfg.Vault)
	if err != nil {
		return err
	}
	if err := client.Health(ctx); err != nil {
		return err
	}

	secrets, err := client.GetStrings(ctx, cfg.Vault.SecretPath)
	if errors.Is(err, ErrSecretNotFound) {
		slog.Warn("No secrets stored in Vault", "path", cfg.Vault.SecretPath)
		return nil
	}
	if err != nil {
		return err
	}

	Apply(cfg, secrets)
	slog.Info("Secrets loaded from Vault", "path", cfg.Vault.SecretPath, "keys", len(secrets))
	return nil
}

// Apply copies known non-empty secrets into cfg
func Apply(cfg *config.Config, secrets map[string]string) {
	targets := map[string]*string{
		KeyLLMAPIKey:    &cfg.LLM.APIKey,
		KeyResendAPIKey: &cfg.Email.ResendAPIKey,
		KeySMTPPassword: &cfg.Email.SMTPPassword,
		KeyJWTSecret:    &cfg.Auth.JWTSecret,
		KeyDBPassword:   &cfg.Database.Password,
	}
	for key, dst := range targets {
		if v := secrets[key]; v != "" {
			*dst = v
		}
	}
}
