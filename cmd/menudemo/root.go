package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"

	cfgFile string
	rows    int
	items   int

	rootCmd = &cobra.Command{
		Use:   "menudemo",
		Short: "Browse a paged inventory menu in the terminal",
		Long: `menudemo opens a paged chest menu for a local player and draws it in
the terminal. Keys stand in for mouse clicks, so menu layouts and click
handlers can be tried without a server.

Settings come from --config and RYSEINV_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), demoOptions{configPath: cfgFile, rows: rows, items: items})
		},
	}
)

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "settings file (yaml, toml or json)")
	rootCmd.Flags().IntVar(&rows, "rows", 6, "menu rows when no layout file is configured")
	rootCmd.Flags().IntVar(&items, "items", 100, "number of demo items")
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
