package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/db"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store/gorm"
)

// roleShowCmd represents the role show command
var roleShowCmd = &cobra.Command{
	Use:   "show <role-name>",
	Short: "Show a role",
	Long: `Show a role and its description.

Example:
  securityctl role show ROLE_ADMIN`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := showRole(cmd.Context(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show role: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	roleCmd.AddCommand(roleShowCmd)
}

func showRole(ctx context.Context, name string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	role, err := gormstore.NewRolesStore(database).FindRoleByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("role %q not found", name)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%d\t%s\t%s\n", role.ID, role.RoleName, role.RoleDesc)
	return nil
}
