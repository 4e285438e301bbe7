package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Format != "ulogcat" {
		t.Errorf("Format = %q, want ulogcat", cfg.Format)
	}
	if cfg.DiffTool != "meld" {
		t.Errorf("DiffTool = %q, want meld", cfg.DiffTool)
	}
	wantKeys := []string{"tag", "threadname", "threadid", "level", "processname", "processid", "ALL"}
	if !reflect.DeepEqual(cfg.Keys, wantKeys) {
		t.Errorf("Keys = %v, want %v", cfg.Keys, wantKeys)
	}
	if cfg.Encoding != "latin1" {
		t.Errorf("Encoding = %q, want latin1", cfg.Encoding)
	}

	d, err := cfg.Watch.DebounceDuration()
	if err != nil || d != 500*time.Millisecond {
		t.Errorf("DebounceDuration() = %v, %v", d, err)
	}
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("format", "dmesg")
	v.Set("keys", []string{"processid"})
	v.Set("redaction.patterns", []string{"hex"})
	v.Set("watch.debounce", "2s")

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != "dmesg" {
		t.Errorf("Format = %q", cfg.Format)
	}
	if !reflect.DeepEqual(cfg.Keys, []string{"processid"}) {
		t.Errorf("Keys = %v", cfg.Keys)
	}
	if !reflect.DeepEqual(cfg.Redaction.Patterns, []string{"hex"}) {
		t.Errorf("Redaction.Patterns = %v", cfg.Redaction.Patterns)
	}
	if d, _ := cfg.Watch.DebounceDuration(); d != 2*time.Second {
		t.Errorf("DebounceDuration() = %v", d)
	}
}

func TestLoadRejectsNegativeWorkers(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("workers", -1)

	if _, err := Load(v); err == nil {
		t.Fatal("expected error for negative workers")
	}
}

func TestDebounceInvalid(t *testing.T) {
	if _, err := (WatchConfig{Debounce: "soon"}).DebounceDuration(); err == nil {
		t.Fatal("expected error")
	}
}
