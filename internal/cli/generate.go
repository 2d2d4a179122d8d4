package cli

import (
	"github.com/spf13/cobra"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
)

func newGenerateCmd(st *state) *cobra.Command {
	var (
		fillExisting  bool
		enhance       bool
		skipRepair    bool
		substitutions bool
		demographics  bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Top the dataset up toward the target transaction count",
		Long: `generate loads the catalog, creates transactions until the target count is
reached, materializes their STT-noisy items and rewrites the transaction totals.
Gap repair and verification run afterwards unless skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := st.open(ctx, sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			req := st.pipelineRequest(cmd.Name(), sess.backend)
			req.Generate.FillExisting = fillExisting
			req.Enhance = enhance
			req.SkipRepair = skipRepair
			req.Substitutions = substitutions
			req.Demographics = demographics

			report, runErr := sess.services.Pipeline.RunGenerate(ctx, req)
			return st.finish(ctx, sess, report, runErr)
		},
	}

	fs := cmd.Flags()
	fs.Int("target", 15000, "desired total transaction count")
	fs.String("start", "2025-03-08", "first day of the timestamp window (YYYY-MM-DD)")
	fs.String("end", "2025-05-31", "day after the timestamp window (YYYY-MM-DD)")
	fs.String("profile", domain.ProfileFillGaps, "noise profile name or YAML/JSON file")
	bindFlag(fs, "target", "SEEDER_TARGET")
	bindFlag(fs, "start", "SEEDER_START_DATE")
	bindFlag(fs, "end", "SEEDER_END_DATE")
	bindFlag(fs, "profile", "SEEDER_PROFILE")

	fs.BoolVar(&fillExisting, "fill-existing", false, "also materialize items for existing transactions without items")
	fs.BoolVar(&enhance, "enhance", false, "add items to sparse transactions before repair")
	fs.BoolVar(&skipRepair, "skip-repair", false, "do not run gap repair")
	fs.BoolVar(&substitutions, "substitutions", false, "generate product substitution records")
	fs.BoolVar(&demographics, "demographics", false, "fill missing customer demographics")
	return cmd
}
