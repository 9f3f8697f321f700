package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func SetVersionInfo(version, commit string) {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
}

var rootCmd = &cobra.Command{
	Use:           "tmuxkit",
	Short:         "Inspect, drive and snapshot tmux servers",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPicker,
}

func init() {
	rootCmd.PersistentFlags().String("host", "", "Drive tmux on a host from the config instead of locally")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/tmuxkit/config.yaml)")
	rootCmd.PersistentFlags().StringP("socket", "L", "", "tmux socket name, overriding tmux.socket")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
