package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeTemp(t, "cfg.yaml", `
addr: ":9000"
voices_dir: /data/voices
engine_command: indextts-infer
engine_args: ["--device", "cuda:0"]
queue_capacity: 16
history_size: 10
window_size: 5
gpu_name: "RTX 4090"
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.VoicesDir != "/data/voices" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.QueueCapacity != 16 || cfg.HistorySize != 10 || cfg.WindowSize != 5 {
		t.Fatalf("queue tuning not parsed: %+v", cfg)
	}
	if len(cfg.EngineArgs) != 2 || cfg.EngineArgs[0] != "--device" {
		t.Fatalf("engine args: %+v", cfg.EngineArgs)
	}
	if cfg.GPUName != "RTX 4090" || cfg.LogLevel != "debug" {
		t.Fatalf("profile fields: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeTemp(t, "cfg.json", `{
  "addr": ":7871",
  "outputs_dir": "outputs",
  "queue_capacity": 64
}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7871" || cfg.OutputsDir != "outputs" || cfg.QueueCapacity != 64 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeTemp(t, "cfg.toml", `
addr = ":8000"
engine_command = "tts-cli"
window_size = 20
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8000" || cfg.EngineCommand != "tts-cli" || cfg.WindowSize != 20 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "cfg.ini", "addr=:9")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeTemp(t, "bad.yaml", "addr: [unterminated")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
