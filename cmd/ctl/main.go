package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"usercenter/internal/app"
	"usercenter/internal/core/config"
	"usercenter/internal/core/logger"
	"usercenter/internal/repo"
)

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()

	var cfgPath = envOr("CONFIG_PATH", "")
	var cfg *config.Config
	var log *zap.Logger
	cleanup := func() {}

	root := &cobra.Command{
		Use:           "ctl",
		Short:         "usercenter maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Read(cfgPath)
			if err != nil {
				return err
			}
			cfg = c
			log, cleanup = logger.FromConfig(cfg.Log)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) { cleanup() },
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", cfgPath, "config file (env CONFIG_PATH)")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and live-only unique indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.OpenDB(cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}()
			if err := repo.Migrate(db); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}

	var seed app.SeedAdminInput
	seedCmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin role and an admin manager with login credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed.Email == "" || seed.Username == "" || seed.Password == "" {
				return fmt.Errorf("--email, --username and --password are required")
			}
			a, err := app.New(cfg, log, true)
			if err != nil {
				return err
			}
			defer a.Close()
			m, err := a.SeedAdmin(context.Background(), seed)
			if err != nil {
				return err
			}
			fmt.Printf("admin manager %s (%s) created\n", m.ID, m.Email)
			return nil
		},
	}
	seedCmd.Flags().StringVar(&seed.FirstName, "first-name", "Admin", "first name")
	seedCmd.Flags().StringVar(&seed.LastName, "last-name", "User", "last name")
	seedCmd.Flags().StringVar(&seed.Email, "email", "", "email")
	seedCmd.Flags().StringVar(&seed.Username, "username", "admin", "login username")
	seedCmd.Flags().StringVar(&seed.Password, "password", envOr("ADMIN_PASSWORD", ""), "login password (env ADMIN_PASSWORD)")

	root.AddCommand(migrateCmd, seedCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
