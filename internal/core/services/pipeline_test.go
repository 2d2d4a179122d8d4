package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	portssvc "github.com/SscSPs/retail_stt_seeder/internal/core/ports/services"
	"github.com/SscSPs/retail_stt_seeder/internal/core/services"
	"github.com/SscSPs/retail_stt_seeder/internal/repositories/memory"
)

type recordingObserver struct {
	reports []domain.RunReport
}

func (o *recordingObserver) RunFinished(_ context.Context, r domain.RunReport) {
	o.reports = append(o.reports, r)
}

func newMemoryContainer(store *memory.Store, observer portssvc.RunObserver) *portssvc.ServiceContainer {
	return newMemoryContainerWith(store, func(opts *services.ContainerOptions) {
		opts.Observers = []portssvc.RunObserver{observer}
	})
}

func newMemoryContainerWith(store *memory.Store, configure func(*services.ContainerOptions)) *portssvc.ServiceContainer {
	opts := services.ContainerOptions{
		Profile:       mustProfile(domain.ProfileFillGaps),
		RepairProfile: mustProfile(domain.ProfileMinimumItems),
		Commit: services.CommitPolicy{
			BatchSize: 50, SubBatchSize: 5, ProbeFirst: true, MaxRetries: 1, Backoff: time.Millisecond,
		},
		Seed:              42,
		RepairPasses:      3,
		FallbackCustomers: 20,
		VerifyFloorRatio:  0.7,
		EnhanceRules:      domain.DefaultEnhanceRules(),
		Satellite:         services.DefaultSatelliteOptions(),
	}
	configure(&opts)
	return services.NewServiceContainer(memory.NewRepositoryProvider(store), opts)
}

// seedItemlessDataset stores a five product catalog and n transactions without items.
func seedItemlessDataset(t *testing.T, store *memory.Store, n int) {
	t.Helper()
	ctx := context.Background()
	src := testCatalog()

	brands, err := store.InsertBrands(ctx, src.Brands)
	require.NoError(t, err)
	products := make([]domain.Product, 0, 5)
	for i, price := range []string{"12.00", "35.50", "42.50", "58.00", "99.75"} {
		products = append(products, domain.Product{
			Name:     fmt.Sprintf("Alaska SKU %d", i+1),
			BrandID:  &brands[0].ID,
			Category: "Dairy",
			Price:    decimalPtr(price),
		})
	}
	_, err = store.InsertProducts(ctx, products)
	require.NoError(t, err)
	stores, err := store.InsertStores(ctx, src.Stores)
	require.NoError(t, err)
	_, err = store.InsertCustomers(ctx, src.Customers)
	require.NoError(t, err)

	window := testWindow()
	txns := make([]domain.Transaction, n)
	for i := range txns {
		txns[i] = domain.Transaction{
			StoreID:     stores[i%len(stores)].ID,
			CreatedAt:   window.Start.Add(time.Duration(i) * time.Hour),
			TotalAmount: decimal.NewFromInt(150),
		}
	}
	_, err = store.InsertTransactions(ctx, txns)
	require.NoError(t, err)
}

func hasWarning(warnings []string, fragment string) bool {
	for _, w := range warnings {
		if strings.Contains(w, fragment) {
			return true
		}
	}
	return false
}

func generateRequest(target int) portssvc.PipelineRequest {
	return portssvc.PipelineRequest{
		RunID:    "test-run",
		Command:  "generate",
		Backend:  "memory",
		Generate: portssvc.GenerateRequest{Target: target, Window: testWindow()},
	}
}

func TestPipeline_GenerateOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	observer := &recordingObserver{}
	container := newMemoryContainer(store, observer)

	report, err := container.Pipeline.RunGenerate(ctx, generateRequest(100))
	require.NoError(t, err)

	assert.True(t, report.Snapshot.CatalogSynthesized)
	require.NotNil(t, report.Generation)
	assert.Equal(t, 100, report.Generation.Requested)
	require.NotNil(t, report.Repair)
	assert.True(t, report.Repair.Converged())

	require.NotNil(t, report.Verification)
	v := report.Verification
	assert.EqualValues(t, len(store.Transactions()), v.TransactionCount)
	assert.EqualValues(t, len(store.Items()), v.ItemCount)
	assert.Zero(t, v.ZeroItemCount)
	assert.Zero(t, v.InvalidItemCount)
	assert.Zero(t, v.FloorViolations)
	assert.Less(t, v.DiscrepancyPct, 20.0)

	for _, item := range store.Items() {
		assert.GreaterOrEqual(t, item.Quantity, 1)
		assert.True(t, item.Price.IsPositive())
	}
	for _, txn := range store.Transactions() {
		assert.False(t, txn.CreatedAt.Before(testWindow().Start))
		assert.True(t, txn.CreatedAt.Before(testWindow().End))
	}

	require.Len(t, observer.reports, 1)
	assert.Equal(t, report.RunID, observer.reports[0].RunID)
	assert.False(t, observer.reports[0].FinishedAt.IsZero())
}

func TestPipeline_FillExistingBackfillsEveryTransaction(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedItemlessDataset(t, store, 100)
	container := newMemoryContainer(store, &recordingObserver{})

	req := generateRequest(100)
	req.Generate.FillExisting = true
	report, err := container.Pipeline.RunGenerate(ctx, req)
	require.NoError(t, err)

	require.NotNil(t, report.Generation)
	assert.Zero(t, report.Generation.Requested)
	assert.False(t, report.Snapshot.CatalogSynthesized)

	require.NotNil(t, report.Verification)
	v := *report.Verification
	assert.EqualValues(t, 100, v.TransactionCount)
	assert.Zero(t, v.ZeroItemCount)
	assert.GreaterOrEqual(t, v.ItemCount, int64(100))
	assert.LessOrEqual(t, v.ItemCount, int64(500))
	assert.Zero(t, v.FloorViolations)
	assert.Less(t, v.DiscrepancyPct, 20.0)

	var small int64
	for _, b := range v.Histogram {
		if b.Items >= 1 && b.Items <= 3 {
			small += b.Transactions
		}
	}
	assert.Greater(t, small, v.TransactionCount/2, "most transactions hold one to three items")

	again, err := container.Verification.Verify(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, v, again)
}

func TestPipeline_SecondRunIsIdempotentAtTarget(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	container := newMemoryContainer(store, &recordingObserver{})

	_, err := container.Pipeline.RunGenerate(ctx, generateRequest(30))
	require.NoError(t, err)
	before := len(store.Transactions())

	report, err := container.Pipeline.RunGenerate(ctx, generateRequest(before))
	require.NoError(t, err)

	require.NotNil(t, report.Generation)
	assert.Zero(t, report.Generation.Requested)
	assert.Len(t, store.Transactions(), before)
}

func TestPipeline_ForbiddenItemInsertsLeaveResidualWarning(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.SetFault(func(table string, _ int) error {
		if table == memory.TableItems {
			return &memory.ConstraintError{Code: "42501", Message: "new row violates row-level security policy"}
		}
		return nil
	})
	container := newMemoryContainer(store, &recordingObserver{})

	report, err := container.Pipeline.RunGenerate(ctx, generateRequest(20))
	require.NoError(t, err)

	assert.Empty(t, store.Items())
	require.NotNil(t, report.Repair)
	assert.False(t, report.Repair.Converged())
	assert.NotEmpty(t, report.Warnings)

	var itemStats *domain.CommitStats
	for i := range report.Commits {
		if report.Commits[i].Table == memory.TableItems {
			itemStats = &report.Commits[i]
		}
	}
	require.NotNil(t, itemStats)
	assert.Zero(t, itemStats.Committed)
	assert.Positive(t, itemStats.FailuresByClass["permission"])

	require.NotNil(t, report.Verification)
	assert.False(t, report.Verification.Passed)
	assert.EqualValues(t, len(store.Transactions()), report.Verification.ZeroItemCount)
}

func TestPipeline_EnhanceAndSatellites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	container := newMemoryContainer(store, &recordingObserver{})

	req := generateRequest(60)
	req.Enhance = true
	req.Substitutions = true
	req.Demographics = true
	report, err := container.Pipeline.RunGenerate(ctx, req)
	require.NoError(t, err)

	require.NotNil(t, report.Enhance)
	require.NotNil(t, report.Satellites)
	assert.Equal(t, len(store.Substitutions()), report.Satellites.SubstitutionsCreated)
	for _, sub := range store.Substitutions() {
		assert.NotEqual(t, sub.OriginalProductID, sub.SubstituteProductID)
	}
	assert.LessOrEqual(t, report.Satellites.CustomersUpdated, report.Satellites.CustomersExamined)
}

func TestPipeline_EnhanceUsesItsOwnProfile(t *testing.T) {
	dropAll := mustProfile(domain.ProfileFillGaps)
	dropAll.Name = "drop-all"
	dropAll.QuantityTiers = []domain.QuantityTier{{Name: "missed", Above: 0, Outcome: domain.CaptureMissed}}

	tests := []struct {
		name           string
		enhanceProfile domain.NoiseProfile
		wantItems      int
	}{
		{name: "separate enhance profile", enhanceProfile: mustProfile(domain.ProfileMinimumItems), wantItems: 20},
		{name: "falls back to generate profile", enhanceProfile: domain.NoiseProfile{}, wantItems: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.NewStore()
			seedItemlessDataset(t, store, 20)
			container := newMemoryContainerWith(store, func(opts *services.ContainerOptions) {
				opts.Profile = dropAll
				opts.EnhanceProfile = tt.enhanceProfile
				opts.EnhanceRules = []domain.EnhanceRule{{ExistingItems: 0, Probability: 1, Min: 1, Max: 1}}
			})

			req := generateRequest(20)
			req.Command = "enhance"
			req.SkipRepair = true
			report, err := container.Pipeline.RunEnhance(ctx, req)
			require.NoError(t, err)

			require.NotNil(t, report.Enhance)
			assert.Equal(t, tt.wantItems, report.Enhance.ItemsAdded)
			assert.Len(t, store.Items(), tt.wantItems)
		})
	}
}

func TestPipeline_RepairWarnsWhenProfileCanDropItems(t *testing.T) {
	tests := []struct {
		name          string
		repairProfile string
		wantWarning   bool
	}{
		{name: "lossy repair profile", repairProfile: domain.ProfileFillGaps, wantWarning: true},
		{name: "never dropping repair profile", repairProfile: domain.ProfileMinimumItems, wantWarning: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.NewStore()
			seedItemlessDataset(t, store, 10)
			container := newMemoryContainerWith(store, func(opts *services.ContainerOptions) {
				opts.RepairProfile = mustProfile(tt.repairProfile)
			})

			req := generateRequest(10)
			req.Command = "repair"
			report, err := container.Pipeline.RunRepair(ctx, req)
			require.NoError(t, err)

			assert.Equal(t, tt.repairProfile, report.RepairProfile)
			assert.Equal(t, tt.wantWarning, hasWarning(report.Warnings, "can drop items"))
		})
	}
}

func TestPipeline_VerifyOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	container := newMemoryContainer(store, &recordingObserver{})
	_, err := container.Pipeline.RunGenerate(ctx, generateRequest(25))
	require.NoError(t, err)
	transactions, items := len(store.Transactions()), len(store.Items())

	req := generateRequest(25)
	req.Command = "verify"
	report, err := container.Pipeline.RunVerify(ctx, req)
	require.NoError(t, err)

	assert.Nil(t, report.Generation)
	require.NotNil(t, report.Verification)
	assert.Len(t, store.Transactions(), transactions)
	assert.Len(t, store.Items(), items)
}

func TestReset_ClearsDataset(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	container := newMemoryContainer(store, &recordingObserver{})
	_, err := container.Pipeline.RunGenerate(ctx, generateRequest(10))
	require.NoError(t, err)

	require.NoError(t, container.Reset.Reset(ctx))

	assert.Empty(t, store.Transactions())
	assert.Empty(t, store.Items())
}
