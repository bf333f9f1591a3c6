package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/audit"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/bootstrap"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/config"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/credential"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/db"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store/gorm"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the default roles, users, resources and allow-list",
	Long: `Write the default authorization records to the database.

Existing records are left untouched, so running the command repeatedly
leaves the database unchanged. All writes happen in one transaction.

Use --file to replace the built-in rule table with a YAML file.

Example:
  securityctl seed
  securityctl seed --file /etc/coresecurity/rules.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")

		report, err := runSeed(cmd.Context(), file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Seeding failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(report)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringP("file", "f", "", "YAML rule file (defaults to seed_file or the built-in rules)")
}

func runSeed(ctx context.Context, file string) (*bootstrap.Report, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if file == "" {
		file = cfg.SeedFile
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}

	audit.UseStore(audit.NewStore(database))

	seeder, err := newSeeder(cfg, gormstore.NewStore(database), seederDeps{Source: "cli"}, file)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return seeder.Seed(ctx)
}

// seederDeps are the per-process collaborators a Seeder is built with.
// Callers that build several Seeders share one Sequence so ordinals keep
// increasing across runs.
type seederDeps struct {
	Recorder bootstrap.Recorder
	Sequence bootstrap.Sequence
	Source   string
}

// newSeeder builds a Seeder from cfg, reading rules from file when set
func newSeeder(cfg *config.Config, st store.Store, deps seederDeps, file string) (*bootstrap.Seeder, error) {
	var rules []bootstrap.Rule
	if file != "" {
		loaded, err := bootstrap.LoadRulesFile(file)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}

	return bootstrap.New(st, credential.NewBcryptHasher(cfg.BcryptCost), bootstrap.Options{
		Rules:     rules,
		AccessIPs: cfg.SeedAccessIPs,
		Sequence:  deps.Sequence,
		Logger:    log.Default(),
		Recorder:  deps.Recorder,
		Source:    deps.Source,
	})
}
