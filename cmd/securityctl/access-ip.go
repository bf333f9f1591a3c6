package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/db"
	gormstore "github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store/gorm"
)

// accessIPCmd represents the access-ip command
var accessIPCmd = &cobra.Command{
	Use:   "access-ip",
	Short: "Inspect the IP allow-list",
	Long:  `Inspect the client addresses allowed through the access-ip check.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'access-ip' requires a subcommand (list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var accessIPListCmd = &cobra.Command{
	Use:   "list",
	Short: "List allow-listed addresses",
	Run: func(cmd *cobra.Command, args []string) {
		if err := listAccessIPs(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list access ips: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(accessIPCmd)
	accessIPCmd.AddCommand(accessIPListCmd)
}

func listAccessIPs(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	entries, err := gormstore.NewAccessIPStore(database).ListAccessIPs(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		fmt.Println(entry.IPAddress)
	}
	return nil
}
