package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConfigDefaults(t *testing.T) {
	cmd := newRootCmd()
	cfg, err := resolveConfig(cmd, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != defaultAddr {
		t.Fatalf("addr = %q, want %q", cfg.Addr, defaultAddr)
	}
	if cfg.VoicesDir != defaultVoicesDir || cfg.OutputsDir != defaultOutputsDir {
		t.Fatalf("dirs: %+v", cfg)
	}
	if cfg.EngineCommand != defaultEngineCmd {
		t.Fatalf("engine cmd = %q", cfg.EngineCommand)
	}
}

func TestResolveConfigEnvAddr(t *testing.T) {
	t.Setenv("TTSD_ADDR", ":9999")
	cmd := newRootCmd()
	cfg, err := resolveConfig(cmd, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("addr = %q, want env value", cfg.Addr)
	}
}

func TestResolveConfigFlagBeatsEnv(t *testing.T) {
	t.Setenv("TTSD_ADDR", ":9999")
	cmd := newRootCmd()
	if err := cmd.Flags().Set("addr", ":8080"); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolveConfig(cmd, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr = %q, flag should win", cfg.Addr)
	}
}

func TestResolveConfigFileUnderFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	content := []byte("addr: \":7000\"\nvoices_dir: /data/voices\nqueue_capacity: 8\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	if err := cmd.Flags().Set("addr", ":7100"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("queue-capacity", "32"); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolveConfig(cmd, path)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":7100" {
		t.Fatalf("flag addr should override file, got %q", cfg.Addr)
	}
	if cfg.VoicesDir != "/data/voices" {
		t.Fatalf("file voices_dir lost: %+v", cfg)
	}
	if cfg.QueueCapacity != 32 {
		t.Fatalf("flag queue capacity should override file, got %d", cfg.QueueCapacity)
	}
}

func TestResolveConfigBadFile(t *testing.T) {
	cmd := newRootCmd()
	if _, err := resolveConfig(cmd, filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
