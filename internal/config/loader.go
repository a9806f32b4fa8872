// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file — first `<root>/conf/.env`, then jail-wide fallback.
  2. Optional `conf/global.yaml` (deployments driven purely by env vars do
     not ship one).
  3. Environment variables prefixed `AUTOLANE_`, where `__` maps to “.”
     (e.g., `AUTOLANE_FEED__PUBLISHER_ID → feed.publisher_id`).

After merging, the tree is unmarshalled into strongly-typed structs,
`vault:`-prefixed secrets are resolved, defaults are applied, and the result
is validated and cached in an `atomic.Pointer` for lock-free reads.
Validation failure is fatal for the caller before any partner or store
traffic happens.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, Vault, validation.
  • INFO  span  — final “config loaded” with non-secret highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed (bootstrap console).

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`; this
    lets `go run ./cmd/feedsync` work from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/autolane/autolane/internal/vault"
)

// Baked defaults.  Anything here can still be overridden per deployment.
const (
	DefaultFeedHost     = "feeds.dealerstream.net"
	DefaultSyncInterval = 6 * time.Hour

	vaultPrefix = "vault:"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves AUTOLANE_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("AUTOLANE_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

// RootDir exposes the resolved project root for bootstrap code that
// needs it before Load runs.  The logger writes under <root>/logs.
func RootDir() string { return rootDir() }

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves Vault refs, validates, and
// caches the Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, err
		}
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// Env overrides: AUTOLANE_FEED__PUBLISHER_ID → feed.publisher_id
	if err := k.Load(env.Provider("AUTOLANE_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "AUTOLANE_")
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	applyDefaults(&cfg)

	if err := resolveSecrets(&cfg); err != nil {
		zap.S().Errorw("config vault resolution failed", "err", err)
		return nil, err
	}

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"feed_host", cfg.Feed.Host,
		"publisher_id", cfg.Feed.PublisherID,
		"ops_listen_addr", cfg.Ops.ListenAddr,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// applyDefaults fills the optional knobs that validation does not force the
// operator to set.
func applyDefaults(cfg *Config) {
	if cfg.Feed.Host == "" {
		cfg.Feed.Host = DefaultFeedHost
	}
	if cfg.Sync.Interval <= 0 {
		cfg.Sync.Interval = DefaultSyncInterval
	}
	if cfg.Paths.ScratchDir == "" {
		cfg.Paths.ScratchDir = os.TempDir()
	}
}

/*──────────────────────────── vault secrets ────────────────────────────────*/

// resolveSecrets replaces `vault:<mount/path>#<key>` references with the
// secret value.  The Vault client is only constructed when at least one
// reference is present, so deployments without Vault never need VAULT_ADDR.
func resolveSecrets(cfg *Config) error {
	refs := []*string{&cfg.Store.Password, &cfg.Feed.Password}

	needed := false
	for _, p := range refs {
		if strings.HasPrefix(*p, vaultPrefix) {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	ctx := context.Background()
	cli, err := vault.New(zap.S().Infof)
	if err != nil {
		return fmt.Errorf("vault bootstrap: %w", err)
	}

	for _, p := range refs {
		if !strings.HasPrefix(*p, vaultPrefix) {
			continue
		}
		path, key, ok := strings.Cut(strings.TrimPrefix(*p, vaultPrefix), "#")
		if !ok || path == "" || key == "" {
			return fmt.Errorf("malformed vault reference %q (want vault:<path>#<key>)", *p)
		}
		val, err := cli.GetKV(ctx, path, key)
		if err != nil {
			return err
		}
		*p = val
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }
