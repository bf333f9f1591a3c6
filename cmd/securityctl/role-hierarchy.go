package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/bootstrap"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/db"
	gormstore "github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store/gorm"
)

// roleHierarchyCmd represents the role hierarchy command
var roleHierarchyCmd = &cobra.Command{
	Use:   "hierarchy",
	Short: "Print the role hierarchy",
	Long: `Print the role hierarchy, one "PARENT > CHILD" edge per line.

Example:
  securityctl role hierarchy`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := printHierarchy(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read role hierarchy: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	roleCmd.AddCommand(roleHierarchyCmd)
}

func printHierarchy(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	nodes, err := gormstore.NewRoleHierarchyStore(database).ListHierarchy(ctx)
	if err != nil {
		return err
	}
	fmt.Print(bootstrap.FormatHierarchy(nodes))
	return nil
}
