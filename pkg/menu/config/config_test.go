package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != Default() {
		t.Errorf("Load(\"\") = %+v, want %+v", s, Default())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ryseinventory.yaml")
	data := []byte("server_version: \"git-Paper-196 (MC: 1.18.2)\"\nopen_cooldown: 500ms\nlog_level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ServerVersion != "git-Paper-196 (MC: 1.18.2)" {
		t.Errorf("ServerVersion = %q", s.ServerVersion)
	}
	if s.OpenCooldown != 500*time.Millisecond {
		t.Errorf("OpenCooldown = %s, want 500ms", s.OpenCooldown)
	}
	if s.TickInterval != 50*time.Millisecond {
		t.Errorf("TickInterval = %s, want the 50ms default", s.TickInterval)
	}
	if s.Level() != log.DebugLevel {
		t.Errorf("Level() = %v, want debug", s.Level())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RYSEINV_SERVER_VERSION", "1.16.5")
	t.Setenv("RYSEINV_TICK_INTERVAL", "25ms")
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ServerVersion != "1.16.5" || s.TickInterval != 25*time.Millisecond {
		t.Errorf("env not applied: %+v", s)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}

	t.Setenv("RYSEINV_LOG_LEVEL", "chatty")
	if _, err := Load(""); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("Load with a bad level = %v, want ErrInvalidSettings", err)
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Settings){
		"empty version": func(s *Settings) { s.ServerVersion = " " },
		"zero tick":     func(s *Settings) { s.TickInterval = 0 },
		"negative wait": func(s *Settings) { s.OpenCooldown = -time.Second },
	}
	for name, mutate := range tests {
		s := Default()
		mutate(&s)
		if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("%s: Validate() = %v, want ErrInvalidSettings", name, err)
		}
	}
}
