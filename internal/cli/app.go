package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portsrepo "github.com/SscSPs/retail_stt_seeder/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/retail_stt_seeder/internal/core/ports/services"
	"github.com/SscSPs/retail_stt_seeder/internal/core/services"
	"github.com/SscSPs/retail_stt_seeder/internal/platform/config"
	"github.com/SscSPs/retail_stt_seeder/internal/platform/credentials"
	"github.com/SscSPs/retail_stt_seeder/internal/platform/logging"
	"github.com/SscSPs/retail_stt_seeder/internal/platform/telemetry"
	"github.com/SscSPs/retail_stt_seeder/internal/report"
	"github.com/SscSPs/retail_stt_seeder/internal/repositories/database/pgsql"
	"github.com/SscSPs/retail_stt_seeder/internal/repositories/dryrun"
	"github.com/SscSPs/retail_stt_seeder/internal/repositories/memory"
	"github.com/SscSPs/retail_stt_seeder/internal/repositories/supabase"
	"github.com/SscSPs/retail_stt_seeder/internal/utils/progress"
	"github.com/SscSPs/retail_stt_seeder/pkg/database"
)

// session is an opened store plus the services built on it.
type session struct {
	backend  string
	services *portssvc.ServiceContainer
	recorder *dryrun.Recorder
	closers  []func()
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// sessionOptions override configuration for a single command.
type sessionOptions struct {
	profile        string
	enhanceProfile string
}

// openRepositories connects the configured backend.
func (s *state) openRepositories(ctx context.Context) (string, portsrepo.RepositoryProvider, []func(), error) {
	cfg := s.cfg
	logger := logging.FromContext(ctx)

	backend, err := cfg.ResolveBackend()
	if err != nil {
		return "", portsrepo.RepositoryProvider{}, nil, err
	}

	switch backend {
	case config.BackendPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, logger)
		if err != nil {
			return "", portsrepo.RepositoryProvider{}, nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
		}
		closer := func() { database.ClosePgxPool(pool, logger) }
		return backend, pgsql.NewRepositoryProvider(pool), []func(){closer}, nil

	case config.BackendSupabase:
		s.inspectKey(ctx)
		client, err := supabase.NewClient(supabase.Options{
			BaseURL:    cfg.SupabaseURL,
			APIKey:     cfg.SupabaseKey(),
			PageSize:   cfg.SupabasePageSize,
			RateLimit:  cfg.SupabaseRateLimit,
			HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		})
		if err != nil {
			return "", portsrepo.RepositoryProvider{}, nil, fmt.Errorf("%w: %v", apperrors.ErrMissingConfig, err)
		}
		repos := supabase.NewRepositoryProvider(client)
		if cfg.EnableDBCheck {
			if _, err := repos.TransactionRepo.CountTransactions(ctx); err != nil {
				return "", portsrepo.RepositoryProvider{}, nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
			}
			logger.Info("Connected to Supabase REST API", slog.String("url", cfg.SupabaseURL))
		}
		return backend, repos, nil, nil

	default:
		logger.Warn("Using the in-memory store, nothing is persisted after the run")
		return backend, memory.NewRepositoryProvider(memory.NewStore()), nil, nil
	}
}

// inspectKey warns when the configured key is subject to row-level security or expired.
func (s *state) inspectKey(ctx context.Context) {
	logger := logging.FromContext(ctx)
	info, err := credentials.InspectKey(s.cfg.SupabaseKey())
	if err != nil {
		logger.Warn("Could not inspect Supabase key", slog.String("error", err.Error()))
		return
	}
	if info.Expired(time.Now()) {
		logger.Warn("Supabase key has expired", slog.Time("expires_at", info.ExpiresAt))
	}
	if !info.BypassesRLS() {
		logger.Warn("Supabase key is not a service role key, inserts are subject to row-level security",
			slog.String("role", info.Role))
	}
}

// open connects the store and builds the service container.
func (s *state) open(ctx context.Context, opts sessionOptions) (*session, error) {
	cfg := s.cfg
	profileRef := cfg.Profile
	if opts.profile != "" {
		profileRef = opts.profile
	}
	profile, err := config.LoadNoiseProfile(profileRef)
	if err != nil {
		return nil, err
	}
	repairProfile, err := config.LoadNoiseProfile(cfg.RepairProfile)
	if err != nil {
		return nil, err
	}
	enhanceRef := domain.ProfileEnhance
	if opts.enhanceProfile != "" {
		enhanceRef = opts.enhanceProfile
	}
	enhanceProfile, err := config.LoadNoiseProfile(enhanceRef)
	if err != nil {
		return nil, err
	}

	backend, repos, closers, err := s.openRepositories(ctx)
	if err != nil {
		return nil, err
	}
	sess := &session{backend: backend, closers: closers}

	if cfg.DryRun {
		sess.recorder = dryrun.NewRecorder()
		repos = dryrun.NewRepositoryProvider(repos, sess.recorder)
	}

	reporter := telemetry.NewRunReporter(cfg.PostHogAPIKey, cfg.PostHogEndpoint, s.logger)
	sess.closers = append(sess.closers, reporter.Close)

	bar := progress.ForFile(os.Stderr)
	sess.services = services.NewServiceContainer(repos, services.ContainerOptions{
		Profile:        profile,
		RepairProfile:  repairProfile,
		EnhanceProfile: enhanceProfile,
		Commit: services.CommitPolicy{
			BatchSize:    cfg.BatchSize,
			SubBatchSize: cfg.SubBatchSize,
			ProbeFirst:   cfg.ProbeFirst,
			MaxRetries:   cfg.MaxRetries,
			Backoff:      cfg.Backoff,
		},
		Seed:              cfg.Seed,
		RepairPasses:      cfg.RepairPasses,
		FallbackCustomers: cfg.FallbackCustomers,
		VerifyFloorRatio:  cfg.VerifyFloorRatio,
		EnhanceRules:      domain.DefaultEnhanceRules(),
		Satellite:         services.DefaultSatelliteOptions(),
		Progress:          bar.Update,
		Observers:         []portssvc.RunObserver{reporter},
	})

	logging.FromContext(ctx).Info("Session opened",
		slog.String("backend", backend),
		slog.String("profile", profile.Name),
		slog.String("noise", profile.Summary()),
		slog.Bool("dry_run", cfg.DryRun),
		slog.Uint64("seed", cfg.Seed))
	return sess, nil
}

func (s *state) pipelineRequest(command, backend string) portssvc.PipelineRequest {
	return portssvc.PipelineRequest{
		RunID:   s.runID,
		Command: command,
		Backend: backend,
		DryRun:  s.cfg.DryRun,
		Generate: portssvc.GenerateRequest{
			Target: s.cfg.Target,
			Window: s.cfg.Window,
		},
	}
}

// finish prints the summary, writes the report artifact and returns runErr. A report
// is printed even when the run failed part way.
func (s *state) finish(ctx context.Context, sess *session, r domain.RunReport, runErr error) error {
	if err := report.PrintSummary(s.stdout, r); err != nil {
		logging.FromContext(ctx).Error("Failed to print summary", slog.String("error", err.Error()))
	}
	if sess != nil && sess.recorder != nil {
		writes := sess.recorder.Writes()
		tables := make([]string, 0, len(writes))
		for t := range writes {
			tables = append(tables, t)
		}
		sort.Strings(tables)
		fmt.Fprintln(s.stdout, "Dry run, suppressed writes:")
		for _, t := range tables {
			fmt.Fprintf(s.stdout, "  %-22s %d\n", t, writes[t])
		}
	}
	if s.cfg.ReportPath != "" {
		if err := report.WriteFile(s.cfg.ReportPath, r); err != nil {
			logging.FromContext(ctx).Error("Failed to write report", slog.String("path", s.cfg.ReportPath), slog.String("error", err.Error()))
		} else {
			logging.FromContext(ctx).Info("Report written", slog.String("path", s.cfg.ReportPath))
		}
	}
	return runErr
}
