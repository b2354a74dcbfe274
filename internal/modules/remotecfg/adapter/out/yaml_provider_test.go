package out_test

import (
	"os"
	"path/filepath"
	"testing"

	adapter "rsoc/internal/modules/remotecfg/adapter/out"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remote.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestYAMLProviderParsesConfig(t *testing.T) {
	t.Parallel()
	path := writeFixture(t, "is_enabled: true\nis_sponsor_page_visible: true\nlink: https://offers.example.com/entry\n")

	cfg := adapter.NewYAMLProvider(path).Current()
	if cfg == nil {
		t.Fatalf("config must parse")
	}
	if !cfg.Enabled || !cfg.SponsorPageVisible {
		t.Fatalf("flags not decoded: %+v", cfg)
	}
	if cfg.Link != "https://offers.example.com/entry" {
		t.Fatalf("link = %q", cfg.Link)
	}
	if !cfg.Usable() {
		t.Fatalf("config must be usable")
	}
}

func TestYAMLProviderMissingFileMeansDisabled(t *testing.T) {
	t.Parallel()
	cfg := adapter.NewYAMLProvider(filepath.Join(t.TempDir(), "absent.yaml")).Current()
	if cfg != nil {
		t.Fatalf("missing fixture must yield nil config, got %+v", cfg)
	}
	if cfg.Usable() {
		t.Fatalf("nil config must not be usable")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	t.Parallel()
	path := writeFixture(t, "is_enabled: [broken\n")
	if _, err := adapter.Load(path); err == nil {
		t.Fatalf("malformed fixture must error")
	}
}

func TestValidateRejectsEnabledWithoutLink(t *testing.T) {
	t.Parallel()
	path := writeFixture(t, "is_enabled: true\n")
	cfg, err := adapter.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("enabled config without link must fail validation")
	}
	if cfg.Usable() {
		t.Fatalf("enabled config without link must not be usable")
	}
}
