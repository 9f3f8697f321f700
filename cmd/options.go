package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show session options, or global ones with -g",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		global, _ := cmd.Flags().GetBool("global")
		opts, err := e.ctrl.ShowOptions(cmdContext(cmd), global)
		if err != nil {
			return fmt.Errorf("failed to show options: %w", err)
		}

		names := make([]string, 0, len(opts))
		for name := range opts {
			names = append(names, name)
		}
		sort.Strings(names)
		rows := make([][]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, []string{name, opts[name]})
		}
		printTable([]string{"OPTION", "VALUE"}, rows)
		return nil
	},
}

var optionCmd = &cobra.Command{
	Use:   "option <name>",
	Short: "Show a single option value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		global, _ := cmd.Flags().GetBool("global")
		value, ok, err := e.ctrl.ShowOption(cmdContext(cmd), args[0], global)
		if err != nil {
			return fmt.Errorf("failed to show option: %w", err)
		}
		if !ok {
			return fmt.Errorf("option %q is not set", args[0])
		}
		fmt.Println(value)
		return nil
	},
}

var defaultCommandCmd = &cobra.Command{
	Use:   "default-command",
	Short: "Print the command tmux starts new panes with",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		command, err := e.ctrl.DefaultCommand(cmdContext(cmd))
		if err != nil {
			return err
		}
		fmt.Println(command)
		return nil
	},
}

func init() {
	optionsCmd.Flags().BoolP("global", "g", false, "Show global options")
	optionCmd.Flags().BoolP("global", "g", false, "Show the global value")
	rootCmd.AddCommand(optionsCmd, optionCmd, defaultCommandCmd)
}
