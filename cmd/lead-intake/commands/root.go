package commands

import (
	"github.com/spf13/cobra"

	"lead-intake-go/pkg/logger"
)

// NewRootCommand builds the CLI. Without a subcommand it serves the API.
func NewRootCommand(log logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "lead-intake",
		Short:         "Project request intake API and admin dashboard backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), log)
		},
	}

	root.AddCommand(
		newServeCommand(log),
		newMigrateCommand(log),
		newCreateAdminCommand(log),
		newHashPasswordCommand(),
	)
	return root
}
