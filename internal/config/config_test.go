package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meditrak/opsdash/internal/model"
)

func TestLoadFromFile_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte(
		"data_dir: /srv/his\nsources:\n  - ip_detail\n  - ip_discharge\nsheet_retries: 7\nsheet_retry_delay: 2s\n",
	), 0644)

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.DataDir != "/srv/his" {
		t.Errorf("DataDir = %q", c.DataDir)
	}
	if len(c.Sources) != 2 || c.Sources[0] != "ip_detail" {
		t.Errorf("unexpected sources: %v", c.Sources)
	}
	if c.SheetRetries != 7 || c.SheetRetryDelay != 2*time.Second {
		t.Errorf("retry settings: %d, %s", c.SheetRetries, c.SheetRetryDelay)
	}
}

func TestLoadFromFile_UnknownSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("sources:\n  - ip_detail\n  - bogus\n"), 0644)

	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestLoadFromFile_EmptySourcesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("sources: []\n"), 0644)

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if len(c.Sources) != len(model.AllSources) {
		t.Errorf("expected %d default sources, got %d", len(model.AllSources), len(c.Sources))
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	if err := c.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate_MissingDataDir(t *testing.T) {
	c := Config{DataDir: "/no/such/dir"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for inaccessible data dir")
	}
}

func TestApplyDefaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()
	if c.SheetRetries != 5 || c.SheetRetryDelay != 3*time.Second {
		t.Errorf("retry defaults: %d, %s", c.SheetRetries, c.SheetRetryDelay)
	}
	if c.ListenAddr == "" || c.CacheDir == "" {
		t.Error("expected listen addr and cache dir defaults")
	}
}
