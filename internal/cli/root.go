package cli

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootOptions holds global flags and the database opener shared by all commands.
type RootOptions struct {
	Format string // "json" | "text"

	// OpenDB connects to the service database. Tests swap it for sqlite.
	OpenDB func() (*gorm.DB, error)
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the reportctl command tree.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts.OpenDB == nil {
		opts.OpenDB = openFromEnv
	}

	cmd := &cobra.Command{
		Use:   "reportctl",
		Short: "Operator tooling for the scam report backend",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSetRoleCommand(opts))
	cmd.AddCommand(NewSetStatusCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

func openFromEnv() (*gorm.DB, error) {
	cfg := config.Load()
	if cfg.DBPassword == "" {
		return nil, errors.New("DB_PASSWORD environment variable is required")
	}
	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	return database.DB, nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
