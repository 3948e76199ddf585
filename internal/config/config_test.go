package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recorder.yaml")
	t.Setenv("UXBENCH_TEST_REDIS", "localhost:6379")

	data := []byte(`
redis:
  addr: ${UXBENCH_TEST_REDIS}
kafka:
  brokers:
    - ${UXBENCH_TEST_UNSET_BROKER}
engine:
  idle_threshold_ms: 5000
archive:
  flush_interval: 2s
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("expected expanded redis addr, got %q", cfg.Redis.Addr)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Fatalf("expected empty brokers to be dropped, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Engine.IdleThresholdMs != 5000 {
		t.Fatalf("expected idle threshold 5000, got %d", cfg.Engine.IdleThresholdMs)
	}
	if cfg.Engine.ActionLogCapacity != 500 || cfg.Engine.LabelMaxLen != 40 {
		t.Fatalf("unexpected engine defaults: %+v", cfg.Engine)
	}
	if cfg.Archive.FlushInterval != 2*time.Second || cfg.Archive.Size != 20 {
		t.Fatalf("unexpected archive config: %+v", cfg.Archive)
	}
	if cfg.Server.HTTPPort != 8090 || cfg.Redis.Prefix != "uxbench" {
		t.Fatalf("unexpected defaults: port=%d prefix=%q", cfg.Server.HTTPPort, cfg.Redis.Prefix)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTopicFallback(t *testing.T) {
	k := KafkaConfig{Topics: map[string]string{"events": "custom.events"}}
	if got := k.Topic("events"); got != "custom.events" {
		t.Fatalf("expected configured topic, got %q", got)
	}
	if got := k.Topic("status"); got != "uxbench.status" {
		t.Fatalf("expected fallback topic, got %q", got)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Engine.IdleThresholdMs != 3000 || cfg.Engine.Source != "uxbench-recorder" {
		t.Fatalf("unexpected engine defaults: %+v", cfg.Engine)
	}
	if cfg.Kafka.ConsumerGroup != "uxbench-recorder" || cfg.Archive.ConsumerGroup != "uxbench-archiver" {
		t.Fatalf("unexpected consumer groups: %q %q", cfg.Kafka.ConsumerGroup, cfg.Archive.ConsumerGroup)
	}
}
