package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ntandostore/core/cmd/api/commands"
)

// @title NtandoStore API
// @version 6.0
// @description Storefront content, media uploads and backups behind a single admin account
// @termsOfService https://github.com/ntandostore/core/blob/main/LICENSE

// @contact.name NtandoStore Support
// @contact.url https://github.com/ntandostore/core

// @license.name MIT
// @license.url https://github.com/ntandostore/core/blob/main/LICENSE

// @host localhost:10000
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "ntandostore",
		Short: "NtandoStore storefront server",
		Long:  `NtandoStore serves a storefront website and its admin panel from a single JSON data file, with timestamped backups and media uploads.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewBackupCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewImportCommand())
	rootCmd.AddCommand(commands.NewAdminCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
