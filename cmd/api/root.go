package main

import (
	"os"

	"github.com/spf13/cobra"

	"auth-service/cmd/api/app"
	"auth-service/cmd/api/server"
)

// configPath is the directory holding app.env.
var configPath string

// NewRootCmd creates the root command. Without a subcommand it serves HTTP.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "auth-service",
		Short:        "Signup and login HTTP service",
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "directory containing app.env")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server until SIGINT or SIGTERM",
		RunE:  runServe,
	}
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users table and its unique email index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Migrate(cmd.Context(), configPath); err != nil {
				return err
			}
			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := server.WithSignal(cmd.Context())
	defer stop()

	a, err := app.New(ctx, configPath)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func defaultConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}
