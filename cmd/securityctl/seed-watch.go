package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/audit"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/bootstrap"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/config"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/db"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store/gorm"
)

// seedWatchCmd represents the seed watch command
var seedWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a rule file and seed whenever it changes",
	Long: `Watch a YAML rule file and run the seeder each time it is written.

Seeding only adds missing records, so editing the file to add a rule
creates that rule's role, user and resources on the next write. Invalid
files are reported and skipped.

Example:
  securityctl seed watch /etc/coresecurity/rules.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchSeedFile(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch rule file: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	seedCmd.AddCommand(seedWatchCmd)
}

// ruleWatcher reseeds from a rule file. Every run draws ordinals from the
// same sequence, so resources added by a later edit never reuse one.
type ruleWatcher struct {
	cfg      *config.Config
	store    store.Store
	sequence bootstrap.Sequence
	out      io.Writer
	errOut   io.Writer
}

func newRuleWatcher(cfg *config.Config, st store.Store) *ruleWatcher {
	return &ruleWatcher{
		cfg:      cfg,
		store:    st,
		sequence: bootstrap.NewSequence(),
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
}

func watchSeedFile(filename string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}
	audit.UseStore(audit.NewStore(database))
	rw := newRuleWatcher(cfg, gormstore.NewStore(database))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors replace files by rename, so watch the directory
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for rule changes\n", filename)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rw.seed(ctx, filename)

	target := filepath.Clean(filename)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fmt.Printf("[%s] Rule file modified, seeding...\n", time.Now().Format(time.RFC3339))
				rw.seed(ctx, filename)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-ctx.Done():
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

// seed applies filename once. Errors are reported, not returned, so the
// watch keeps running after a bad edit.
func (rw *ruleWatcher) seed(ctx context.Context, filename string) *bootstrap.Report {
	seeder, err := newSeeder(rw.cfg, rw.store, seederDeps{Sequence: rw.sequence, Source: "watch"}, filename)
	if err != nil {
		fmt.Fprintf(rw.errOut, "Error loading rules: %v\n", err)
		return nil
	}

	report, err := seeder.Seed(ctx)
	if err != nil {
		fmt.Fprintf(rw.errOut, "Error seeding: %v\n", err)
		return nil
	}
	fmt.Fprintf(rw.out, "Seeded from %s: %s\n", filename, report)
	return report
}
