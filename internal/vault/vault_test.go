// internal/vault/vault_test.go
//
// Unit-tests for the Vault client wrapper.  No Vault server is involved;
// construction and input validation are covered.
//
// Run: go test ./internal/vault -v

package vault

import (
	"context"
	"testing"
)

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("VAULT_ADDR", "http://vault.internal:8200")
	t.Setenv("VAULT_TOKEN", "dev-token")

	cli, err := New(nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if got := cli.api.Address(); got != "http://vault.internal:8200" {
		t.Errorf("address = %q, want the VAULT_ADDR value", got)
	}
	if got := cli.api.Token(); got != "dev-token" {
		t.Errorf("token = %q, want the VAULT_TOKEN value", got)
	}
}

func TestGetKVRejectsEmptyPathOrKey(t *testing.T) {
	t.Setenv("VAULT_ADDR", "http://vault.internal:8200")

	cli, err := New(nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if _, err := cli.GetKV(context.Background(), "", "password"); err == nil {
		t.Error("GetKV with an empty path returned nil error")
	}
	if _, err := cli.GetKV(context.Background(), "secret/autolane", ""); err == nil {
		t.Error("GetKV with an empty key returned nil error")
	}
}

func TestSplitMount(t *testing.T) {
	cases := []struct{ in, mount, rel string }{
		{"secret/autolane/feed", "secret", "autolane/feed"},
		{"secret/db", "secret", "db"},
		{"secret", "secret", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		mount, rel := splitMount(c.in)
		if mount != c.mount || rel != c.rel {
			t.Errorf("splitMount(%q) = (%q, %q), want (%q, %q)", c.in, mount, rel, c.mount, c.rel)
		}
	}
}
