package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/state")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Tmux.Binary != "tmux" || cfg.Tmux.Socket != "" {
		t.Errorf("Tmux = %+v", cfg.Tmux)
	}
	if cfg.Ready.Interval != 50*time.Millisecond || cfg.Ready.Timeout != 5*time.Second {
		t.Errorf("Ready = %+v", cfg.Ready)
	}
	if cfg.DropLinesFor("zsh") != 1 || cfg.DropLinesFor("vim") != 0 {
		t.Errorf("DropLines = %v", cfg.Capture.DropLines)
	}
	if cfg.StateDir != "/var/state/tmuxkit" {
		t.Errorf("StateDir = %q", cfg.StateDir)
	}
}

func TestLoadFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeConfig(t, `
tmux:
  binary: /opt/bin/tmux
  socket: work
ready:
  interval: 10ms
  timeout: 2s
capture:
  drop_lines:
    bash: 2
state_dir: ~/snapshots
hosts:
  box:
    host: box.example.com
    user: dev
    ssh_key: ~/.ssh/id_box
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Tmux.Binary != "/opt/bin/tmux" || cfg.Tmux.Socket != "work" {
		t.Errorf("Tmux = %+v", cfg.Tmux)
	}
	if cfg.Ready.Interval != 10*time.Millisecond || cfg.Ready.Timeout != 2*time.Second {
		t.Errorf("Ready = %+v", cfg.Ready)
	}
	if cfg.DropLinesFor("bash") != 2 || cfg.DropLinesFor("zsh") != 0 {
		t.Errorf("DropLines = %v", cfg.Capture.DropLines)
	}
	if want := filepath.Join(home, "snapshots"); cfg.StateDir != want {
		t.Errorf("StateDir = %q, want %q", cfg.StateDir, want)
	}
	box := cfg.Hosts["box"]
	if want := filepath.Join(home, ".ssh", "id_box"); box.SSHKey != want {
		t.Errorf("SSHKey = %q, want %q", box.SSHKey, want)
	}
	if box.Host != "box.example.com" || box.User != "dev" {
		t.Errorf("host = %+v", box)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not yaml", "tmux: [unterminated"},
		{"negative drop", "capture:\n  drop_lines:\n    zsh: -1\n"},
		{"host without address", "hosts:\n  box:\n    user: dev\n"},
		{"bad duration", "ready:\n  interval: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("Load() succeeded, want error")
			}
		})
	}
}

func TestDefaultPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if got != "/etc/xdg/tmuxkit/config.yaml" {
		t.Errorf("DefaultPath() = %q", got)
	}
}
