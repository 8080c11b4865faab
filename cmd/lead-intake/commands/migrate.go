package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"lead-intake-go/internal/config"
	"lead-intake-go/internal/db"
	"lead-intake-go/migrations"
	"lead-intake-go/pkg/logger"
)

func newMigrateCommand(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
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

			applied, err := db.Migrate(conn, migrations.Files, log)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	}
}
