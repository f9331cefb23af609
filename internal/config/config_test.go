package config_test

// Coverage Notes:
// - Every test pins XDG_CONFIG_HOME to a temp dir via t.Setenv, so the
//   package serializes; no t.Parallel here.
// - Covers file parsing, env fallbacks, precedence, and Save round-trips.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-titlegen/internal/config"
)

// setConfigHome points the config dir at a fresh temp dir and clears
// the env fallbacks.
func setConfigHome(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("TITLEGEN_MODEL", "")
	t.Setenv("TITLEGEN_PROVIDER", "")
	t.Setenv("TITLEGEN_NUM_TITLES", "")
	return tmp
}

// writeConfig writes raw content to the config file under the temp home.
func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, "go-titlegen")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields empty config", func(t *testing.T) {
		setConfigHome(t)

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg != (config.Config{}) {
			t.Errorf("cfg = %+v, want zero value", cfg)
		}
	})

	t.Run("reads all keys from file", func(t *testing.T) {
		home := setConfigHome(t)
		writeConfig(t, home, "model=gpt-4o\nprovider=deepseek\nnum-titles=3\n")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.Model != "gpt-4o" {
			t.Errorf("Model = %q, want %q", cfg.Model, "gpt-4o")
		}
		if cfg.Provider != "deepseek" {
			t.Errorf("Provider = %q, want %q", cfg.Provider, "deepseek")
		}
		if cfg.NumTitles != 3 {
			t.Errorf("NumTitles = %d, want 3", cfg.NumTitles)
		}
	})

	t.Run("env fallbacks fill missing keys", func(t *testing.T) {
		home := setConfigHome(t)
		writeConfig(t, home, "model=gpt-4o\n")
		t.Setenv("TITLEGEN_PROVIDER", "deepseek")
		t.Setenv("TITLEGEN_NUM_TITLES", "7")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.Model != "gpt-4o" {
			t.Errorf("Model = %q, want %q", cfg.Model, "gpt-4o")
		}
		if cfg.Provider != "deepseek" {
			t.Errorf("Provider = %q, want env fallback", cfg.Provider)
		}
		if cfg.NumTitles != 7 {
			t.Errorf("NumTitles = %d, want 7", cfg.NumTitles)
		}
	})

	t.Run("file value wins over env", func(t *testing.T) {
		home := setConfigHome(t)
		writeConfig(t, home, "provider=openai\n")
		t.Setenv("TITLEGEN_PROVIDER", "deepseek")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.Provider != "openai" {
			t.Errorf("Provider = %q, want the file value", cfg.Provider)
		}
	})

	t.Run("non-integer num-titles is an error", func(t *testing.T) {
		home := setConfigHome(t)
		writeConfig(t, home, "num-titles=beaucoup\n")

		if _, err := config.Load(); err == nil {
			t.Error("expected error for non-integer num-titles")
		}
	})
}

func TestSave(t *testing.T) {
	t.Run("creates directory and file", func(t *testing.T) {
		setConfigHome(t)

		if err := config.Save("provider", "deepseek"); err != nil {
			t.Fatalf("Save() unexpected error: %v", err)
		}

		value, err := config.Get("provider")
		if err != nil {
			t.Fatalf("Get() unexpected error: %v", err)
		}
		if value != "deepseek" {
			t.Errorf("Get() = %q, want %q", value, "deepseek")
		}
	})

	t.Run("preserves other keys", func(t *testing.T) {
		setConfigHome(t)

		if err := config.Save("model", "gpt-4o"); err != nil {
			t.Fatal(err)
		}
		if err := config.Save("num-titles", "3"); err != nil {
			t.Fatal(err)
		}

		data, err := config.List()
		if err != nil {
			t.Fatalf("List() unexpected error: %v", err)
		}
		if data["model"] != "gpt-4o" || data["num-titles"] != "3" {
			t.Errorf("List() = %v, want both keys kept", data)
		}
	})

	t.Run("overwrites existing key", func(t *testing.T) {
		setConfigHome(t)

		if err := config.Save("model", "gpt-4o-mini"); err != nil {
			t.Fatal(err)
		}
		if err := config.Save("model", "gpt-4o"); err != nil {
			t.Fatal(err)
		}

		value, err := config.Get("model")
		if err != nil {
			t.Fatal(err)
		}
		if value != "gpt-4o" {
			t.Errorf("Get() = %q, want the newer value", value)
		}
	})
}

func TestGet(t *testing.T) {
	t.Run("missing file yields empty value", func(t *testing.T) {
		setConfigHome(t)

		value, err := config.Get("model")
		if err != nil {
			t.Errorf("Get() error = %v, want nil", err)
		}
		if value != "" {
			t.Errorf("Get() = %q, want empty", value)
		}
	})

	t.Run("unknown key yields empty value", func(t *testing.T) {
		home := setConfigHome(t)
		writeConfig(t, home, "model=gpt-4o\n")

		value, err := config.Get("autre")
		if err != nil {
			t.Errorf("Get() error = %v, want nil", err)
		}
		if value != "" {
			t.Errorf("Get() = %q, want empty", value)
		}
	})
}

func TestParseFile(t *testing.T) {
	t.Run("skips comments and blank lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config")
		content := "# commentaire\n\nmodel = gpt-4o \n  provider=deepseek\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		data, err := config.ParseFile(path)
		if err != nil {
			t.Fatalf("ParseFile() unexpected error: %v", err)
		}
		if data["model"] != "gpt-4o" {
			t.Errorf("model = %q, want trimmed value", data["model"])
		}
		if data["provider"] != "deepseek" {
			t.Errorf("provider = %q, want %q", data["provider"], "deepseek")
		}
	})

	t.Run("rejects malformed lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config")
		if err := os.WriteFile(path, []byte("pas de signe egal\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		_, err := config.ParseFile(path)
		if err == nil {
			t.Fatal("expected error for malformed line")
		}
		if !strings.Contains(err.Error(), "line 1") {
			t.Errorf("error should name the line: %v", err)
		}
	})
}
