// Package cli wires the cobra commands of the seeder.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/SscSPs/retail_stt_seeder/internal/platform/config"
	"github.com/SscSPs/retail_stt_seeder/internal/platform/logging"
)

const viperKeyAnnotation = "viper_key"

// state is shared by the commands of one root. It is filled by the root pre-run.
type state struct {
	viper  *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
	runID  string
	stdout io.Writer
	stderr io.Writer
}

// bindFlag ties a flag to a configuration key. Binding happens in the pre-run of the
// command actually executing, so commands may share a key.
func bindFlag(fs *pflag.FlagSet, name, key string) {
	if err := fs.SetAnnotation(name, viperKeyAnnotation, []string{key}); err != nil {
		panic(err)
	}
}

func (s *state) bindFlags(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[viperKeyAnnotation]
		if len(keys) == 0 || bindErr != nil {
			return
		}
		bindErr = s.viper.BindPFlag(keys[0], f)
	})
	return bindErr
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	st := &state{viper: viper.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "stt_seeder",
		Short: "Seed, top up, repair and verify an STT-realistic retail dataset",
		Long: `stt_seeder generates a demo retail dataset shaped like speech-to-text captures:
transactions with sometimes-missed items, approximate prices and noisy totals.

It tops the dataset up toward a target count, backfills transactions that own no
items, and verifies the result. Writes go to Postgres directly (PGSQL_URL) or
through the Supabase REST API (VITE_SUPABASE_URL with an API key).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.String("backend", config.BackendAuto, "store backend: auto, postgres, supabase or memory")
	pf.Bool("dry-run", false, "read from the store but count writes instead of persisting them")
	pf.String("report", "", "write the run report to this path (.md or .json)")
	pf.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	pf.Int("batch-size", 500, "rows per write batch")
	pf.String("log-level", "info", "debug, info, warn or error")
	pf.String("log-format", "json", "json or text")
	bindFlag(pf, "backend", "STORE_BACKEND")
	bindFlag(pf, "dry-run", "SEEDER_DRY_RUN")
	bindFlag(pf, "report", "SEEDER_REPORT_PATH")
	bindFlag(pf, "seed", "SEEDER_SEED")
	bindFlag(pf, "batch-size", "SEEDER_BATCH_SIZE")
	bindFlag(pf, "log-level", "LOG_LEVEL")
	bindFlag(pf, "log-format", "LOG_FORMAT")

	root.AddCommand(
		newGenerateCmd(st),
		newRepairCmd(st),
		newVerifyCmd(st),
		newEnhanceCmd(st),
		newSeedCatalogCmd(st),
		newMigrateCmd(st),
		newResetCmd(st),
		newProfilesCmd(st),
	)
	return root
}

func (s *state) setup(cmd *cobra.Command) error {
	if err := s.bindFlags(cmd); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	cfg, err := config.Load(s.viper)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.logger = logging.NewLogger(s.stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(s.logger)

	s.runID = logging.NewRunID()
	ctx := logging.WithRunLogger(cmd.Context(), s.logger, s.runID, cmd.Name())
	cmd.SetContext(ctx)
	logging.FromContext(ctx).Debug("Configuration loaded", slog.Any("config", cfg))
	return nil
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
