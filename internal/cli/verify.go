package cli

import (
	"github.com/spf13/cobra"
)

func newVerifyCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Recompute integrity aggregates without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := st.open(ctx, sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			report, runErr := sess.services.Pipeline.RunVerify(ctx, st.pipelineRequest(cmd.Name(), sess.backend))
			return st.finish(ctx, sess, report, runErr)
		},
	}

	fs := cmd.Flags()
	fs.Int("target", 15000, "expected transaction count")
	bindFlag(fs, "target", "SEEDER_TARGET")
	return cmd
}
