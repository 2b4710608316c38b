package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ntandostore/core/internal/application"
	"github.com/ntandostore/core/internal/application/services"
	"github.com/ntandostore/core/internal/infrastructure/config"
	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/infrastructure/server"
)

// Set at build time with -ldflags "-X github.com/ntandostore/core/cmd/api/commands.Version=..."
var (
	Version   = "6.0.0"
	BuildDate = "unknown"
	GitCommit = "development"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the storefront server",
		Long:  "Start the storefront server with the public site, the admin API and static files",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewBackupCommand creates the backup command with subcommands
func NewBackupCommand() *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Backup management commands",
		Long:  "Create, list, restore and prune snapshots of the data file",
	}

	backupCmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Snapshot the data file now",
		Run: func(cmd *cobra.Command, args []string) {
			withApp(func(ctx context.Context, app *application.App) error {
				info, err := app.Backup.Create(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Backup created: %s (%s)\n", info.Filename, humanize.Bytes(uint64(info.Size)))
				return nil
			})
		},
	})

	backupCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			withApp(func(ctx context.Context, app *application.App) error {
				list, err := app.Backup.List(ctx)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Println("No backups available")
					return nil
				}
				for _, b := range list {
					fmt.Printf("%-50s  %10s  %s\n", b.Filename, humanize.Bytes(uint64(b.Size)), humanize.Time(b.Created))
				}
				return nil
			})
		},
	})

	backupCmd.AddCommand(&cobra.Command{
		Use:   "restore <filename>",
		Short: "Replace the data with a backup",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			withApp(func(ctx context.Context, app *application.App) error {
				report, err := app.Backup.Restore(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Restored %s\n", args[0])
				printWarnings(report.Warnings())
				return nil
			})
		},
	})

	backupCmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete backups beyond the retention limit",
		Run: func(cmd *cobra.Command, args []string) {
			withApp(func(ctx context.Context, app *application.App) error {
				removed, err := app.Backup.Prune(ctx)
				for _, name := range removed {
					fmt.Printf("Removed %s\n", name)
				}
				if err != nil {
					return err
				}
				fmt.Printf("%d backup(s) removed\n", len(removed))
				return nil
			})
		},
	})

	return backupCmd
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export all data next to the backups",
		Run: func(cmd *cobra.Command, args []string) {
			withApp(func(ctx context.Context, app *application.App) error {
				result, err := app.Transfer.Export(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Export written to %s\n", result.Path)
				return nil
			})
		},
	}
}

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with an export file",
		Long:  "Replace all data with an export file. The current data is backed up first.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			withApp(func(ctx context.Context, app *application.App) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				report, err := app.Transfer.Import(ctx, f)
				if err != nil {
					return err
				}
				fmt.Printf("Imported %s\n", args[0])
				printWarnings(report.Warnings())
				return nil
			})
		},
	}
}

// NewAdminCommand creates the admin credential command
func NewAdminCommand() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin credential commands",
	}

	adminCmd.AddCommand(&cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			hash, err := services.HashPassword(args[0])
			if err != nil {
				log.Fatalf("Failed to hash password: %v", err)
			}
			fmt.Println(hash)
		},
	})

	return adminCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print NtandoStore version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("NtandoStore v%s\n", Version)
			fmt.Printf("Build Date: %s\n", BuildDate)
			fmt.Printf("Git Commit: %s\n", GitCommit)
		},
	}
}

func runServer() {
	cfg, appLogger := mustLoad()
	defer appLogger.Close()

	app, err := application.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize application", "error", err)
	}

	srv, err := server.New(app)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Infow("Starting NtandoStore server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"data_file", cfg.Storage.DataFile,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.Address())
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalw("Server failed to start", "error", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Errorw("Graceful shutdown failed", "error", err)
		}
	}
}

// withApp wires the application for a one-shot command and exits non-zero
// when fn fails.
func withApp(fn func(ctx context.Context, app *application.App) error) {
	cfg, appLogger := mustLoad()
	defer appLogger.Close()

	app, err := application.New(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := fn(context.Background(), app); err != nil {
		appLogger.Close()
		log.Fatalf("Command failed: %v", err)
	}
}

func mustLoad() (*config.Config, *logger.Logger) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.App.Version == "" {
		cfg.App.Version = Version
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return cfg, appLogger
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}
}
