// internal/config/model.go
//
// Typed configuration model for the Autolane feed-sync service.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                            – dotenv values,
//   • optional `conf/global.yaml`                – static defaults,
//   • `AUTOLANE_`-prefixed environment overrides – highest precedence.
//
// Any secret whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* validation, so the model never stores
// Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the binary fails fast if
// a required credential is missing, before any network activity.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths.Root` field is filled at runtime; YAML must not set it.
//   • Oxford commas, two spaces after periods.

package config

import (
	"fmt"
	"time"
)

//
// Store section
//

// Store holds the vehicle-store DSN template and its secret.
//
// The *template* (`DSN`) carries host, port, database, and flags so
// operators can tweak them without touching Vault.  The *secret* portion
// (`Password`) is injected at runtime through env or Vault, keeping
// credentials out of flat files and git history.  The template must contain
// exactly one `%s` verb where the password belongs; the `dsn_verb` rule in
// validator.go enforces that.
type Store struct {
	DSN      string `koanf:"dsn"      validate:"required,dsn_verb"`
	Password string `koanf:"password" validate:"required"`
}

// ResolvedDSN substitutes the password into the DSN template.
func (s Store) ResolvedDSN() string {
	return fmt.Sprintf(s.DSN, s.Password)
}

//
// Feed section
//

// Feed identifies the partner inventory endpoint.  Host carries a baked
// default; the credentials and the publisher identifier are per-deployment
// and therefore required.
type Feed struct {
	Host        string `koanf:"host"         validate:"required"`
	Username    string `koanf:"username"     validate:"required"`
	Password    string `koanf:"password"     validate:"required"`
	PublisherID string `koanf:"publisher_id" validate:"required"`
}

//
// Sync section
//

// Sync holds scheduler tunables.  Interval only matters in daemon mode;
// single-run invocations ignore it.
type Sync struct {
	Interval time.Duration `koanf:"interval"`
}

//
// Ops section
//

// Ops configures the operational HTTP listener (healthz + metrics).  An
// empty ListenAddr disables it; single-run mode never starts it.
type Ops struct {
	ListenAddr string `koanf:"listen_addr"`
}

//
// Paths section (partially runtime)
//

// Paths holds filesystem locations.  Root is resolved at runtime—never set
// in YAML or env—so later code can build absolute log paths.  ScratchDir
// falls back to the OS temp directory when left empty.
type Paths struct {
	Root       string `koanf:"-"`
	ScratchDir string `koanf:"scratch_dir"`
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the process lifetime.
type Config struct {
	Store Store `koanf:"store"`
	Feed  Feed  `koanf:"feed"`
	Sync  Sync  `koanf:"sync"`
	Ops   Ops   `koanf:"ops"`
	Paths Paths `koanf:"paths"`
}
