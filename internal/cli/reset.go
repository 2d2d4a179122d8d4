package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/SscSPs/retail_stt_seeder/internal/platform/logging"
	"github.com/SscSPs/retail_stt_seeder/internal/utils/progress"
)

const resetConfirmation = "RESET"

func newResetCmd(st *state) *cobra.Command {
	var (
		yes        bool
		regenerate bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the whole seeded dataset, catalog included",
		Long: `reset wipes items, substitutions, transactions, customers, products, brands
and stores. With --regenerate a fresh catalog and dataset are generated right after.
It asks for confirmation on a terminal unless --yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !yes {
				if !progress.IsInteractive() {
					return fmt.Errorf("%w: reset requires --yes when not running on a terminal", apperrors.ErrValidation)
				}
				fmt.Fprintf(st.stdout, "This deletes the whole dataset. Type %s to continue: ", resetConfirmation)
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(line) != resetConfirmation {
					fmt.Fprintln(st.stdout, "Aborted")
					return nil
				}
			}

			sess, err := st.open(ctx, sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.services.Reset.Reset(ctx); err != nil {
				return err
			}
			logging.FromContext(ctx).Info("Dataset reset", slog.Bool("dry_run", st.cfg.DryRun))
			fmt.Fprintln(st.stdout, "Dataset reset")

			if !regenerate {
				return nil
			}
			req := st.pipelineRequest("generate", sess.backend)
			report, runErr := sess.services.Pipeline.RunGenerate(ctx, req)
			return st.finish(ctx, sess, report, runErr)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	fs.BoolVar(&regenerate, "regenerate", false, "run generate toward the target after the reset")
	fs.Int("target", 15000, "target transaction count for --regenerate")
	bindFlag(fs, "target", "SEEDER_TARGET")
	return cmd
}
