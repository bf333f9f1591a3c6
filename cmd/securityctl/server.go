package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/audit"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/config"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/db"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/endpoints"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/middleware"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the authorization model server",
	Long: `Run the authorization model server.

Running the server requires the DATABASE_URL environment variable.

By default, database migrations are run on startup. Use --no-migrate to skip.
Once the listener is bound the bootstrap seeder runs a single time unless
seed_on_startup is disabled. A failed seed stops the server.`,
	Run: func(cmd *cobra.Command, args []string) {
		if db.URL() == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		audit.UseStore(audit.NewStore(database))

		m := metrics.New()
		if sqlDB, err := database.DB(); err == nil {
			if err := m.CollectDBStats(sqlDB, "coresecurity"); err != nil {
				log.Printf("db pool metrics disabled: %v", err)
			}
		}
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(cfg, database, m, host, port)

		if cfg.AccessIPCheckEnabled {
			checker := middleware.NewAccessIPChecker(s.Store, cfg, m)
			checker.Exempt["/"] = true
			checker.Exempt["/metrics"] = true
			s.Router.Use(checker.Middleware)
		}

		if cfg.SeedOnStartup {
			seeder, err := newSeeder(cfg, s.Store, seederDeps{Recorder: m, Source: "startup"}, cfg.SeedFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid seed rules: %v\n", err)
				os.Exit(1)
			}
			s.OnReady(seeder.HandleReady)
		}

		endpoints.RegisterAll(s)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.Printf("Running server at http://%s...\n", s.Addr())
		if err := s.Start(ctx); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
