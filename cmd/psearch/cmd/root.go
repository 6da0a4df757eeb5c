package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "psearch",
	Short: "psearch — multi-pattern exact string matching",
	Long:  "Aho-Corasick matching: scan text for every occurrence of every pattern in one linear pass.",
}

// defaultDBPath returns the default bbolt database for named dictionaries.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return filepath.Join(home, ".psearch", "dicts.db")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(dictCmd)
	rootCmd.AddCommand(daemonCmd)
}
