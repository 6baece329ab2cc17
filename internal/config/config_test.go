package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Diff.Tolerance != 1e-4 {
		t.Errorf("Diff.Tolerance = %g, want 1e-4", cfg.Diff.Tolerance)
	}
	if cfg.Guard.Ticks != 3 {
		t.Errorf("Guard.Ticks = %d, want 3", cfg.Guard.Ticks)
	}
	if len(cfg.Suppression.AllowPrefixes) == 0 {
		t.Error("Suppression.AllowPrefixes should not be empty by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
logging:
  level: debug
diff:
  tolerance: 0.001
guard:
  ticks: 5
suppression:
  allow_prefixes:
    - "com.mycorp."
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Diff.Tolerance != 0.001 {
		t.Errorf("Diff.Tolerance = %g, want 0.001", cfg.Diff.Tolerance)
	}
	if cfg.Guard.Ticks != 5 {
		t.Errorf("Guard.Ticks = %d, want 5", cfg.Guard.Ticks)
	}
	if len(cfg.Suppression.AllowPrefixes) != 1 || cfg.Suppression.AllowPrefixes[0] != "com.mycorp." {
		t.Errorf("AllowPrefixes = %v, want [com.mycorp.]", cfg.Suppression.AllowPrefixes)
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("logging: ["), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RIGPREVIEW_LOG_LEVEL", "trace")
	t.Setenv("RIGPREVIEW_DIFF_TOLERANCE", "0.01")
	t.Setenv("RIGPREVIEW_GUARD_TICKS", "7")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Logging.Level != "trace" {
		t.Errorf("Logging.Level = %q, want trace", cfg.Logging.Level)
	}
	if cfg.Diff.Tolerance != 0.01 {
		t.Errorf("Diff.Tolerance = %g, want 0.01", cfg.Diff.Tolerance)
	}
	if cfg.Guard.Ticks != 7 {
		t.Errorf("Guard.Ticks = %d, want 7", cfg.Guard.Ticks)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default ok", func(c *Config) {}, false},
		{"negative tolerance", func(c *Config) { c.Diff.Tolerance = -1 }, true},
		{"negative ticks", func(c *Config) { c.Guard.Ticks = -1 }, true},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"empty level ok", func(c *Config) { c.Logging.Level = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
