package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "securityctl",
	Short: "Authorization model server and bootstrap seeder",
	Long: `securityctl runs the authorization model server and manages the
roles, users, protected resources, role hierarchy and IP allow-list it
serves from.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
