package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sunpack/boxline/internal/config"
	"github.com/sunpack/boxline/internal/db"
	"golang.org/x/term"
	"gorm.io/gorm"
)

// openDB loads the config and connects to the configured database.
func openDB(configPath string) (*gorm.DB, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	gormDB, err := db.Connect(cfg.MySQL)
	if err != nil {
		return nil, nil, err
	}
	return gormDB, cfg, nil
}

func newDBCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database lifecycle commands",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "boxline.yaml", "path to Boxline config file")

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the database, run migrations, and seed machines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Run schema migrations and re-seed machines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBMigrate(cmd, configPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate the database (destructive)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath)
		},
	})
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	adminDB, err := db.ConnectAdmin(cfg.MySQL)
	if err != nil {
		return err
	}
	if err := db.CreateDatabase(adminDB, cfg.MySQL.Database); err != nil {
		return err
	}
	return migrateAndSeed(cmd, cfg)
}

func runDBMigrate(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return migrateAndSeed(cmd, cfg)
}

func migrateAndSeed(cmd *cobra.Command, cfg *config.Config) error {
	gormDB, err := db.Connect(cfg.MySQL)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	if err := db.SeedMachines(gormDB, cfg.Machines); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Database %s migrated, %d machines seeded\n", cfg.MySQL.Database, len(cfg.Machines))
	return nil
}

func runDBReset(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Ask only when attached to a terminal; scripted resets proceed.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(cmd.OutOrStdout(), "Drop database %s and all production records? Type the database name to confirm: ", cfg.MySQL.Database)
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.TrimSpace(line) != cfg.MySQL.Database {
			return fmt.Errorf("reset aborted")
		}
	}

	adminDB, err := db.ConnectAdmin(cfg.MySQL)
	if err != nil {
		return err
	}
	if err := db.DropDatabase(adminDB, cfg.MySQL.Database); err != nil {
		return err
	}
	if err := db.CreateDatabase(adminDB, cfg.MySQL.Database); err != nil {
		return err
	}
	return migrateAndSeed(cmd, cfg)
}
