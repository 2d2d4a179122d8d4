package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/SscSPs/retail_stt_seeder/internal/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() domain.RunReport {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	return domain.RunReport{
		RunID:      "3f1c",
		Command:    "generate",
		Backend:    "memory",
		DryRun:     true,
		Profile:    domain.ProfileFillGaps,
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
		Snapshot:   domain.DatasetSnapshot{TransactionCount: 14900, ItemCount: 30000},
		Generation: &domain.GenerationResult{Requested: 100, TransactionsCreated: 95, TransactionsMissed: 5, ItemsCreated: 190, ItemsDropped: 12},
		Commits: []domain.CommitStats{
			{Table: "transactions", Attempted: 95, Committed: 95, Batches: 1},
			{Table: "transaction_items", Attempted: 190, Committed: 180, Failed: 10, Batches: 1, FailuresByClass: map[string]int{"permission": 10}},
		},
		Repair: &domain.RepairResult{Passes: 1, InitialGaps: 3, Repaired: 3, GapsPerPass: []int{3}},
		Verification: &domain.VerificationResult{
			Target: 15000, TransactionCount: 14995, ItemCount: 30180, ItemsPerTransaction: 2.01,
			Histogram:     []domain.HistogramBucket{{Items: 1, Transactions: 5000}, {Items: 2, Transactions: 10000}},
			StoredRevenue: decimal.RequireFromString("1234567.891"), ItemRevenue: decimal.RequireFromString("1200000"),
			DiscrepancyPct: 2.88, Grade: domain.GradeExcellent,
		},
		Warnings: []string{"10 of 190 transaction_items rows were not committed"},
	}
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, report.PrintSummary(&out, sampleReport()))
	s := out.String()

	assert.Contains(t, s, "==== generate summary (memory, dry run) ====")
	assert.Contains(t, s, "Created 95/100 transactions (5 missed)")
	assert.Contains(t, s, "180/190 committed, 10 failed [permission=10]")
	assert.Contains(t, s, "Repair: 3/3 gaps fixed in 1 passes, residual 0")
	assert.Contains(t, s, "Verification: NEEDS ATTENTION")
	assert.Contains(t, s, "₱1,234,567.89 vs ₱1,200,000.00 (2.88%, excellent)")
	assert.Contains(t, s, "  2 | ############################## 10000")
	assert.Contains(t, s, "  1 | ############### 5000")
	assert.Contains(t, s, "WARN 10 of 190 transaction_items rows were not committed")
}

func TestWriteFile_Markdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.md")
	require.NoError(t, report.WriteFile(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	md := string(data)
	assert.Contains(t, md, "# Seeder run 3f1c")
	assert.Contains(t, md, "| Backend | memory (dry run) |")
	assert.Contains(t, md, "| transaction_items | 190 | 180 | 10 | 1 | 0 | 0 | permission=10 |")
	assert.Contains(t, md, "| 2 | 10000 |")
	assert.Contains(t, md, "## Warnings")
	assert.NotContains(t, md, "## Enhancement")
}

func TestWriteFile_JSONByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, report.WriteFile(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded domain.RunReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "3f1c", decoded.RunID)
	require.NotNil(t, decoded.Verification)
	assert.Equal(t, domain.GradeExcellent, decoded.Verification.Grade)
}
