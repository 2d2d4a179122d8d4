package cli

import (
	"github.com/spf13/cobra"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
)

func newEnhanceCmd(st *state) *cobra.Command {
	var (
		profile    string
		skipRepair bool
	)

	cmd := &cobra.Command{
		Use:   "enhance",
		Short: "Add extra captured items to transactions with few items",
		Long: `enhance gives transactions with zero, one or two items a chance of extra
items drawn with the enhance noise profile, then runs gap repair and verification.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := st.open(ctx, sessionOptions{profile: profile, enhanceProfile: profile})
			if err != nil {
				return err
			}
			defer sess.Close()

			req := st.pipelineRequest(cmd.Name(), sess.backend)
			req.SkipRepair = skipRepair
			report, runErr := sess.services.Pipeline.RunEnhance(ctx, req)
			return st.finish(ctx, sess, report, runErr)
		},
	}

	cmd.Flags().StringVar(&profile, "profile", domain.ProfileEnhance, "noise profile name or YAML/JSON file")
	cmd.Flags().BoolVar(&skipRepair, "skip-repair", false, "do not run gap repair afterwards")
	return cmd
}
