package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HostConfig describes a remote machine whose tmux server is driven over ssh.
type HostConfig struct {
	Host   string `yaml:"host"`
	User   string `yaml:"user"`
	SSHKey string `yaml:"ssh_key"`
}

type TmuxConfig struct {
	Binary string `yaml:"binary"`
	Socket string `yaml:"socket"`
}

type ReadyConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

type CaptureConfig struct {
	// DropLines maps a pane's current command to the number of trailing
	// prompt lines removed from its captured buffer.
	DropLines map[string]int `yaml:"drop_lines"`
}

type Config struct {
	Tmux     TmuxConfig            `yaml:"tmux"`
	Ready    ReadyConfig           `yaml:"ready"`
	Capture  CaptureConfig         `yaml:"capture"`
	StateDir string                `yaml:"state_dir"`
	Hosts    map[string]HostConfig `yaml:"hosts"`
}

// DefaultPath returns $XDG_CONFIG_HOME/tmuxkit/config.yaml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tmuxkit", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tmuxkit", "config.yaml"), nil
}

// Load reads the config at path, or at DefaultPath when path is empty.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	home, _ := os.UserHomeDir()

	if c.Tmux.Binary == "" {
		c.Tmux.Binary = "tmux"
	}
	if c.Ready.Interval <= 0 {
		c.Ready.Interval = 50 * time.Millisecond
	}
	if c.Ready.Timeout <= 0 {
		c.Ready.Timeout = 5 * time.Second
	}
	if c.Capture.DropLines == nil {
		c.Capture.DropLines = map[string]int{"zsh": 1}
	}
	for cmd, n := range c.Capture.DropLines {
		if n < 0 {
			return fmt.Errorf("capture.drop_lines[%s]: negative value %d", cmd, n)
		}
	}

	if c.StateDir == "" {
		stateHome := os.Getenv("XDG_STATE_HOME")
		if stateHome == "" {
			if home == "" {
				return fmt.Errorf("cannot locate state directory: no home directory")
			}
			stateHome = filepath.Join(home, ".local", "state")
		}
		c.StateDir = filepath.Join(stateHome, "tmuxkit")
	}
	c.StateDir = expandHome(c.StateDir, home)

	for name, h := range c.Hosts {
		if h.Host == "" {
			return fmt.Errorf("hosts.%s: missing host", name)
		}
		h.SSHKey = expandHome(h.SSHKey, home)
		c.Hosts[name] = h
	}
	return nil
}

// DropLinesFor returns how many trailing lines to drop from a capture of a
// pane running command.
func (c *Config) DropLinesFor(command string) int {
	return c.Capture.DropLines[command]
}

func expandHome(path, home string) string {
	if home == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
