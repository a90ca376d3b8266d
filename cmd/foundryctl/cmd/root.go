// Package cmd contains the CLI commands for foundryctl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const defaultDBPath = "./data/foundry.db"

var (
	// Used for flags
	verbose bool
	output  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "foundryctl",
	Short: "Foundry - Co-founder matching platform admin tool",
	Long: `foundryctl manages a Foundry deployment from the command line.

It operates directly on the server's SQLite database and is intended
for operators: creating accounts, inspecting users, and minting
access tokens for testing.

Examples:
  # Create a user account
  foundryctl user create --username alice --email alice@example.com

  # List all users
  foundryctl user list

  # Mint an access token for testing
  FOUNDRY_JWT_SECRET=... foundryctl token --username alice`,
	// Run when no subcommand is specified
	Run: func(cmd *cobra.Command, args []string) {
		// Show help by default
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
}

// GetOutput returns the output format.
func GetOutput() string {
	return output
}

// PrintVerbose prints a message only if verbose mode is enabled.
func PrintVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}

// PrintError prints an error message and exits if fatal is true.
func PrintError(msg string, fatal bool) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	if fatal {
		os.Exit(1)
	}
}
