package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the registry database",
	Long:  `Manage the registry database schema and migrations.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'db' requires a subcommand (migrate, ping)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var dbPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check database connectivity",
	Run: func(cmd *cobra.Command, args []string) {
		if err := pingDatabase(); err != nil {
			fmt.Fprintf(os.Stderr, "Database is not reachable: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Database is reachable")
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbPingCmd)
}

func databaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func pingDatabase() error {
	dbURL := databaseURL()
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	return conn.Ping()
}
