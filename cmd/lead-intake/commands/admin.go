package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"lead-intake-go/internal/config"
	"lead-intake-go/internal/db"
	userdomain "lead-intake-go/internal/domain/user"
	userrepo "lead-intake-go/internal/repository/postgres/user"
	"lead-intake-go/migrations"
	"lead-intake-go/pkg/logger"
)

func newCreateAdminCommand(log logger.Logger) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account or promote an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(log)
			if err != nil {
				return err
			}

			conn, err := db.NewPostgres(cfg.DB, log)
			if err != nil {
				return err
			}
			defer db.Close(conn)

			if _, err := db.Migrate(conn, migrations.Files, log); err != nil {
				return err
			}

			users := userdomain.NewService(userrepo.NewPostgres(conn))
			account, created, err := users.EnsureAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}

			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %d <%s>\n", account.ID, account.Email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %d <%s> already present\n", account.ID, account.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrador", "display name for a new account")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password for a new account")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// newHashPasswordCommand prints a bcrypt hash for seeding users by hand. The
// password comes from the argument or, when absent, from stdin.
func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(string(raw), "\r\n")
			}
			if password == "" {
				return errors.New("password is empty")
			}

			hash, err := userdomain.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
