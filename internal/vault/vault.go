// internal/vault/vault.go
//
// Vault client wrapper for Autolane feed-sync.
//
// Context
// -------
//   - Thin, concurrency-safe wrapper around the HashiCorp Vault Go SDK.
//   - Adds a simple KV-v2 read helper.
//   - Secrets are read once during configuration load (`vault:`-prefixed
//     values); the process holds no long-lived lease, so there is no
//     background renewal loop and no response cache.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(log.Printf)        // during boot.
//  2. pw,  err := cli.GetKV(ctx, path, key)    // per secret reference.
//
// Build tags: none.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

//
// SECTION 1.  Public façade
//

// Client is safe for concurrent use.  Create once at startup.  Zero value is
// invalid.
type Client struct {
	api   *vault.Client
	logFn func(string, ...any)
}

// New constructs a Vault client from the standard environment.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – token (falls back to ~/.vault-token).
func New(logFn func(string, ...any)) (*Client, error) {
	if logFn == nil {
		logFn = func(string, ...any) {}
	}

	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}

	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	return &Client{api: apiCli, logFn: logFn}, nil
}

// GetKV fetches a single key from a KV-v2 secret.
func (c *Client) GetKV(ctx context.Context, secretPath, key string) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}

	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}

	c.logFn("vault: resolved %s#%s", secretPath, key)
	return sval, nil
}

//
// SECTION 2.  Helpers
//

func splitMount(p string) (mount, rel string) {
	if p == "" {
		return "", ""
	}
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}
