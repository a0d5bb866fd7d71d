package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/services"
	"github.com/spf13/cobra"
)

type userResult struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.OpenDB()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			return output(cmd.OutOrStdout(), opts.Format, map[string]string{"status": "migrated"}, "schema migrated")
		},
	}
}

func NewSetRoleCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <email> <user|admin|external>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.OpenDB()
			if err != nil {
				return err
			}
			users := services.NewUserService(db)
			ctx := cmd.Context()
			user, err := users.GetByEmail(ctx, args[0])
			if err != nil {
				return err
			}
			user, err = users.SetRole(ctx, user.ID, models.Role(args[1]))
			if err != nil {
				return err
			}
			return outputUser(cmd.OutOrStdout(), opts.Format, user)
		},
	}
}

func NewSetStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <email> <active|banned>",
		Short: "Ban or reinstate a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.OpenDB()
			if err != nil {
				return err
			}
			users := services.NewUserService(db)
			ctx := cmd.Context()
			user, err := users.GetByEmail(ctx, args[0])
			if err != nil {
				return err
			}
			user, err = users.SetStatus(ctx, user.ID, models.UserStatus(args[1]))
			if err != nil {
				return err
			}
			return outputUser(cmd.OutOrStdout(), opts.Format, user)
		},
	}
}

func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the number of reports in each status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.OpenDB()
			if err != nil {
				return err
			}
			counts, err := repository.NewReportRepository(db).CountByStatus(cmd.Context())
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), counts)
			}
			for _, st := range models.AllReportStatuses {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d\n", st, counts[st])
			}
			return nil
		},
	}
}

func outputUser(w io.Writer, format string, u *models.User) error {
	res := userResult{ID: u.ID.String(), Email: u.Email, Role: string(u.Role), Status: string(u.Status)}
	return output(w, format, res, fmt.Sprintf("%s role=%s status=%s", res.Email, res.Role, res.Status))
}

func output(w io.Writer, format string, v any, text string) error {
	if format == "json" {
		return writeJSON(w, v)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
