package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 9090
client:
  api_base_url: "http://gym.example.com/api"
  state_dir: "/var/lib/ironlog"
database:
  path: "/var/lib/ironlog/ironlog.db"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Client.APIBaseURL != "http://gym.example.com/api" {
		t.Errorf("client.api_base_url = %q", cfg.Client.APIBaseURL)
	}
	if cfg.Client.StateDir != "/var/lib/ironlog" {
		t.Errorf("client.state_dir = %q", cfg.Client.StateDir)
	}
	if cfg.Database.Path != "/var/lib/ironlog/ironlog.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
}

// TestEnvOverride verifies that IRONLOG_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("IRONLOG_SERVER_PORT", "7070")
	t.Setenv("IRONLOG_API_BASE_URL", "http://localhost:7070/api")
	t.Setenv("IRONLOG_DB_PATH", "override.db")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Client.APIBaseURL != "http://localhost:7070/api" {
		t.Errorf("client.api_base_url = %q", cfg.Client.APIBaseURL)
	}
	if cfg.Database.Path != "override.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	// Untouched fields keep the file values.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
}

// TestEnvOverrideBadPort verifies that a non-numeric port env var is ignored.
func TestEnvOverrideBadPort(t *testing.T) {
	t.Setenv("IRONLOG_SERVER_PORT", "not-a-port")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
}

// TestLoadMissingFile verifies that a nonexistent path returns an error.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// TestLoadInvalidYAML verifies that malformed YAML returns an error.
func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeTemp(t, "server: [not a map")); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

// TestLoadRejectsBadPort verifies validation of out-of-range ports.
func TestLoadRejectsBadPort(t *testing.T) {
	bad := `
server:
  port: 70000
client:
  api_base_url: "http://localhost/api"
`
	if _, err := Load(writeTemp(t, bad)); err == nil {
		t.Fatal("expected validation error for port 70000")
	}
}

// TestLoadRequiresBaseURL verifies that client.api_base_url must be set.
func TestLoadRequiresBaseURL(t *testing.T) {
	if _, err := Load(writeTemp(t, "server:\n  port: 8080\n")); err == nil {
		t.Fatal("expected validation error for missing base URL")
	}
}

// TestDefault verifies the built-in config used when no file is given.
func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8484 {
		t.Errorf("server.port = %d, want 8484", cfg.Server.Port)
	}
	if cfg.Client.APIBaseURL != "http://127.0.0.1:8484/api" {
		t.Errorf("client.api_base_url = %q", cfg.Client.APIBaseURL)
	}
	if cfg.Database.Path != "ironlog.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
}

// TestStateDirOrDefault verifies the explicit and home-relative cases.
func TestStateDirOrDefault(t *testing.T) {
	c := ClientConfig{StateDir: "/tmp/custom"}
	dir, err := c.StateDirOrDefault()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/tmp/custom" {
		t.Errorf("state dir = %q, want /tmp/custom", dir)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	dir, err = ClientConfig{}.StateDirOrDefault()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != filepath.Join(home, ".ironlog") {
		t.Errorf("state dir = %q, want %q", dir, filepath.Join(home, ".ironlog"))
	}
}
