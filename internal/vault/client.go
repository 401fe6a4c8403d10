package vault

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/vault/api"
)

// Config holds HashiCorp Vault configuration
type Config struct {
	Enabled    bool   `json:"enabled"`
	Address    string `json:"address"`
	Token      string `json:"token"`
	MountPath  string `json:"mount_path"`  // KV secrets engine mount path
	SecretPath string `json:"secret_path"` // Path prefix for engine secrets
	TLSEnabled bool   `json:"tls_enabled"`
	CACert     string `json:"ca_cert"`
}

// Client wraps the HashiCorp Vault client. When Vault is disabled the
// client falls back to an in-memory store so local development works
// without a Vault server.
type Client struct {
	client *api.Client
	config Config
	mu     sync.RWMutex
	cache  map[string]string
}

// NewClient creates a new Vault client
func NewClient(cfg Config) (*Client, error) {
	if !cfg.Enabled {
		return &Client{
			config: cfg,
			cache:  make(map[string]string),
		}, nil
	}

	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSEnabled && cfg.CACert != "" {
		tlsConfig := &api.TLSConfig{
			CACert: cfg.CACert,
		}
		if err := vaultConfig.ConfigureTLS(tlsConfig); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)

	return &Client{
		client: client,
		config: cfg,
		cache:  make(map[string]string),
	}, nil
}

// StoreSecret stores a named secret value
func (c *Client) StoreSecret(ctx context.Context, name, value string) error {
	if !c.config.Enabled {
		c.mu.Lock()
		c.cache[name] = value
		c.mu.Unlock()
		return nil
	}

	path := c.secretPath(name)
	secretData := map[string]interface{}{
		"data": map[string]interface{}{
			"value": value,
		},
	}

	_, err := c.client.Logical().WriteWithContext(ctx, path, secretData)
	if err != nil {
		return fmt.Errorf("failed to store secret in vault: %w", err)
	}

	c.mu.Lock()
	c.cache[name] = value
	c.mu.Unlock()

	return nil
}

// GetSecret retrieves a named secret value
func (c *Client) GetSecret(ctx context.Context, name string) (string, error) {
	c.mu.RLock()
	if cached, ok := c.cache[name]; ok {
		c.mu.RUnlock()
		return cached, nil
	}
	c.mu.RUnlock()

	if !c.config.Enabled {
		return "", fmt.Errorf("secret %q not found and vault is disabled", name)
	}

	path := c.secretPath(name)

	secret, err := c.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret from vault: %w", err)
	}

	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("secret %q not found", name)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid secret format")
	}

	value, ok := data["value"].(string)
	if !ok {
		return "", fmt.Errorf("secret %q has no value field", name)
	}

	c.mu.Lock()
	c.cache[name] = value
	c.mu.Unlock()

	return value, nil
}

// GetSecretOrDefault retrieves a secret, falling back to the provided
// value when Vault has no entry for it.
func (c *Client) GetSecretOrDefault(ctx context.Context, name, fallback string) string {
	value, err := c.GetSecret(ctx, name)
	if err != nil || value == "" {
		return fallback
	}
	return value
}

// DeleteSecret removes a named secret
func (c *Client) DeleteSecret(ctx context.Context, name string) error {
	c.mu.Lock()
	delete(c.cache, name)
	c.mu.Unlock()

	if !c.config.Enabled {
		return nil
	}

	path := fmt.Sprintf("%s/metadata/%s/%s", c.config.MountPath, c.config.SecretPath, name)

	_, err := c.client.Logical().DeleteWithContext(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to delete secret from vault: %w", err)
	}

	return nil
}

// HealthCheck verifies Vault connectivity
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}

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

func (c *Client) secretPath(name string) string {
	return fmt.Sprintf("%s/data/%s/%s", c.config.MountPath, c.config.SecretPath, name)
}
