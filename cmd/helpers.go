package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/simon/tmuxkit/internal/config"
	"github.com/simon/tmuxkit/internal/tmux"
)

// env bundles what every subcommand needs: the loaded config, the runner
// for the selected host and a controller on top of it.
type env struct {
	cfg    *config.Config
	host   string
	runner tmux.Attacher
	ctrl   *tmux.Controller
}

func setup(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if socket, _ := cmd.Flags().GetString("socket"); socket != "" {
		cfg.Tmux.Socket = socket
	}

	host, _ := cmd.Flags().GetString("host")
	runner, err := resolveRunner(cfg, host)
	if err != nil {
		return nil, err
	}

	ctrl := tmux.NewController(runner,
		tmux.WithReadyInterval(cfg.Ready.Interval),
		tmux.WithReadyTimeout(cfg.Ready.Timeout),
	)
	return &env{cfg: cfg, host: host, runner: runner, ctrl: ctrl}, nil
}

// resolveRunner returns a runner for the given host nickname.
// Empty host returns a LocalRunner.
func resolveRunner(cfg *config.Config, host string) (tmux.Attacher, error) {
	if host == "" {
		return &tmux.LocalRunner{Binary: cfg.Tmux.Binary, Socket: cfg.Tmux.Socket}, nil
	}

	h, ok := cfg.Hosts[host]
	if !ok {
		return nil, fmt.Errorf("unknown host %q: add it under hosts in the config", host)
	}
	return &tmux.SSHRunner{
		Nickname: host,
		Host:     h.Host,
		User:     h.User,
		SSHKey:   h.SSHKey,
		Socket:   cfg.Tmux.Socket,
	}, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var (
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#D6249F", Dark: "#FF79C6"}).
				Padding(0, 1)
	tableCellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// printTable writes rows under headers: a styled table on a terminal,
// tab-separated lines otherwise so the output stays scriptable.
func printTable(headers []string, rows [][]string) {
	if !isTerminal() {
		for _, r := range rows {
			fmt.Println(strings.Join(r, "\t"))
		}
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#777777", Dark: "#6272A4"})).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	fmt.Println(t)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

// confirm asks a yes/no question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	var answer string
	fmt.Scanln(&answer) //nolint:errcheck
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
