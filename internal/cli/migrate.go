package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/SscSPs/retail_stt_seeder/internal/platform/logging"
	"github.com/SscSPs/retail_stt_seeder/internal/platform/migrations"
)

func newMigrateCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the retail schema on PGSQL_URL",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(migrations.Up), string(migrations.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			dir, err := migrations.ParseDirection(arg)
			if err != nil {
				return err
			}
			if st.cfg.DatabaseURL == "" {
				return fmt.Errorf("%w: PGSQL_URL is required to run migrations", apperrors.ErrMissingConfig)
			}

			changed, err := migrations.Run(ctx, st.cfg.DatabaseURL, dir)
			if err != nil {
				return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
			}
			logging.FromContext(ctx).Info("Migrations finished", slog.String("direction", string(dir)), slog.Bool("changed", changed))
			if changed {
				fmt.Fprintf(st.stdout, "Schema migrated %s\n", dir)
			} else {
				fmt.Fprintln(st.stdout, "Schema already up to date")
			}
			return nil
		},
	}
}
