package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tenantgate/pkg/api"
	"github.com/dmitrymomot/tenantgate/pkg/config"
	"github.com/dmitrymomot/tenantgate/pkg/httpserver"
	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/pg"
	"github.com/dmitrymomot/tenantgate/pkg/pgstore"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
)

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "tenantgate",
		Short:         "Multi-tenant entitlement engine",
		Long:          "tenantgate decides what a user may do in an organization: role permissions, per-application subscriptions and plan quotas.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.LoadEnv(envFiles...)
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "load variables from these .env files first")

	root.AddCommand(newServeCmd(), newMigrateCmd(), newReconcileCmd(), newPlansCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, log, err := loadApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			deps, cleanup, err := bootstrap(ctx, app, log)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := httpserver.NewFromConfig(app.HTTP, httpserver.WithLogger(log))
			return srv.Run(ctx, api.NewRouter(deps))
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, err := loadApp()
			if err != nil {
				return err
			}
			var pgCfg pg.Config
			if err := config.Load(&pgCfg); err != nil {
				return err
			}

			pool, err := pg.Connect(cmd.Context(), pgCfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			return pg.Migrate(cmd.Context(), pool, pgstore.Migrations, pgstore.MigrationsDir, pgCfg, log)
		},
	}
}

func newReconcileCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Persist the expired status of lapsed subscriptions",
		Long:  "Access checks derive expiry from timestamps on every call. reconcile only brings stored statuses in line, for reporting.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now().UTC()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = t
			}

			app, log, err := loadApp()
			if err != nil {
				return err
			}
			deps, cleanup, err := bootstrap(cmd.Context(), app, log)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := deps.Subscriptions.Reconcile(cmd.Context(), now)
			deps.Metrics.RecordReconciled(n)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d subscriptions\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "evaluate expiry at this RFC 3339 instant instead of now")
	return cmd
}

func newPlansCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Validate and print the plan catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := plans.SourceFor(path).Load(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"version": catalog.Version(),
				"plans":   catalog.All(),
			})
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "YAML catalog to load instead of the built-in one")
	return cmd
}

// loadApp parses and validates the service configuration and builds the logger.
func loadApp() (config.App, *slog.Logger, error) {
	var app config.App
	if err := config.Load(&app); err != nil {
		return app, nil, err
	}
	if err := app.Validate(); err != nil {
		return app, nil, err
	}
	level, _ := logger.ParseLevel(app.Log.Level)
	log := newLogger(app.Log, level)
	return app, log, nil
}
