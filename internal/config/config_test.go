package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.NATS.SubjectPrefix != "draft.events" {
		t.Errorf("subject prefix = %q, want draft.events", cfg.NATS.SubjectPrefix)
	}
	if cfg.Trade.FairnessThresholdPercent != 15 {
		t.Errorf("fairness threshold = %v, want 15", cfg.Trade.FairnessThresholdPercent)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("port: 9000\nnats:\n  url: nats://file:4222\ntrade:\n  fairness_threshold_percent: 25\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("NATS_URL", "nats://env:4222")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("port = %d, want 9000 from file", cfg.Port)
	}
	if cfg.NATS.URL != "nats://env:4222" {
		t.Errorf("nats url = %q, env must win over file", cfg.NATS.URL)
	}
	if cfg.Trade.FairnessThresholdPercent != 25 {
		t.Errorf("fairness threshold = %v, want 25 from file", cfg.Trade.FairnessThresholdPercent)
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for a non-numeric PORT")
	}
}
