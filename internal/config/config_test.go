package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
plant: mill1
server:
  port: 9090
  digest_cron: "0 6 * * *"
mysql:
  host: db.local
  database: boxline_mill1
machines:
  - id: mc-printer-1
    code: PRN1
    type: printing
  - id: mc-corr-1
    code: COR1
    type: corrugation
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Plant != "mill1" {
		t.Errorf("Plant = %q, want mill1", cfg.Plant)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.MySQL.Host != "db.local" {
		t.Errorf("MySQL.Host = %q, want db.local", cfg.MySQL.Host)
	}
	if len(cfg.Machines) != 2 {
		t.Fatalf("len(Machines) = %d, want 2", len(cfg.Machines))
	}
	if cfg.Machines[0].ID != "mc-printer-1" {
		t.Errorf("Machines[0].ID = %q", cfg.Machines[0].ID)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("plant: mill2\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.MySQL.Host != "127.0.0.1" {
		t.Errorf("default host = %q", cfg.MySQL.Host)
	}
	if cfg.MySQL.Port != 3306 {
		t.Errorf("default mysql port = %d", cfg.MySQL.Port)
	}
	if cfg.MySQL.User != "root" {
		t.Errorf("default user = %q", cfg.MySQL.User)
	}
	if cfg.MySQL.Database != "boxline_mill2" {
		t.Errorf("derived database = %q, want boxline_mill2", cfg.MySQL.Database)
	}
}

func TestParse_MissingPlant(t *testing.T) {
	_, err := Parse([]byte("server:\n  port: 8080\n"))
	if err == nil {
		t.Fatal("expected error for missing plant")
	}
	if !strings.Contains(err.Error(), "plant is required") {
		t.Errorf("error = %q, want plant is required", err)
	}
}

func TestParse_MachineMissingID(t *testing.T) {
	_, err := Parse([]byte("plant: mill1\nmachines:\n  - code: PRN1\n"))
	if err == nil {
		t.Fatal("expected error for machine without id")
	}
	if !strings.Contains(err.Error(), "machines[0].id is required") {
		t.Errorf("error = %q", err)
	}
}

func TestParse_NotifyChannelRequired(t *testing.T) {
	_, err := Parse([]byte("plant: mill1\nnotify:\n  slack_token: xoxb-1\n"))
	if err == nil {
		t.Fatal("expected error for slack token without channel")
	}
	if !strings.Contains(err.Error(), "slack_channel is required") {
		t.Errorf("error = %q", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("plant: [unclosed"))
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boxline.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Plant != "mill1" {
		t.Errorf("Plant = %q", cfg.Plant)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
