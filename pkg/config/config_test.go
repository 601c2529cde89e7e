package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Refresh != "*/15 * * * *" {
		t.Fatalf("unexpected refresh default %q", cfg.Refresh)
	}
	if cfg.Grid.StartHour != 0 || cfg.Grid.EndHour != 24 {
		t.Fatalf("expected full-day default, got %d-%d", cfg.Grid.StartHour, cfg.Grid.EndHour)
	}
	if cfg.Grid.CellHeight != 80 || cfg.Grid.SnapMinutes != 15 {
		t.Fatalf("unexpected grid defaults %+v", cfg.Grid)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
refresh: "*/5 * * * *"
grid:
  start_hour: 8
  end_hour: 20
  cell_height: 64
  snap_minutes: 30
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Refresh != "*/5 * * * *" {
		t.Fatalf("unexpected refresh %q", cfg.Refresh)
	}
	if cfg.Grid.StartHour != 8 || cfg.Grid.EndHour != 20 {
		t.Fatalf("unexpected hours %d-%d", cfg.Grid.StartHour, cfg.Grid.EndHour)
	}
	if cfg.Grid.SnapMinutes != 30 {
		t.Fatalf("unexpected snap %d", cfg.Grid.SnapMinutes)
	}
}

func TestLoad_ReversedHoursNormalized(t *testing.T) {
	path := writeConfig(t, `
grid:
  start_hour: 20
  end_hour: 8
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.StartHour != 0 || cfg.Grid.EndHour != 24 {
		t.Fatalf("reversed hours must fall back to the full day, got %d-%d",
			cfg.Grid.StartHour, cfg.Grid.EndHour)
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
grid:
  start_hour: 30
  end_hour: 40
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for out-of-range hours")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatalf("expected error for a missing config file")
	}
}

func TestLoad_DSNFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/calgrid")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PostgresDSN != "postgres://u:p@localhost:5432/calgrid" {
		t.Fatalf("expected DSN from environment, got %q", cfg.PostgresDSN)
	}
}
