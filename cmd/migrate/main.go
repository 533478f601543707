package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Operator tooling for the Lift Legends backend",
	Long: `Operator tooling for the Lift Legends backend.

Available subcommands:
  schema  - Apply or roll back the Postgres schema
  profile - Export or import a user's profile file`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(schemaCmd, profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
