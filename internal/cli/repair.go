package cli

import (
	"github.com/spf13/cobra"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
)

func newRepairCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Backfill items for transactions that own none",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := st.open(ctx, sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			report, runErr := sess.services.Pipeline.RunRepair(ctx, st.pipelineRequest(cmd.Name(), sess.backend))
			return st.finish(ctx, sess, report, runErr)
		},
	}

	fs := cmd.Flags()
	fs.Int("passes", 3, "maximum repair passes")
	fs.String("profile", domain.ProfileMinimumItems, "repair noise profile name or YAML/JSON file")
	fs.Int("target", 15000, "target transaction count reported by verification")
	bindFlag(fs, "passes", "SEEDER_REPAIR_PASSES")
	bindFlag(fs, "profile", "SEEDER_REPAIR_PROFILE")
	bindFlag(fs, "target", "SEEDER_TARGET")
	return cmd
}
