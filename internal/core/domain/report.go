package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DatasetSnapshot is the state of the remote dataset observed once at the start of a run.
type DatasetSnapshot struct {
	TakenAt            time.Time         `json:"takenAt"`
	TransactionCount   int64             `json:"transactionCount"`
	ItemCount          int64             `json:"itemCount"`
	Catalog            Catalog           `json:"-"`
	CatalogSynthesized bool              `json:"catalogSynthesized"`
	Itemless           []TransactionFill `json:"-"` // transactions that own no items yet
}

// Deficit returns how many transactions are missing to reach target.
func (s DatasetSnapshot) Deficit(target int) int {
	missing := int64(target) - s.TransactionCount
	if missing < 0 {
		return 0
	}
	return int(missing)
}

// CommitStats accumulates the outcome of writing one table in batches.
type CommitStats struct {
	Table           string         `json:"table"`
	Attempted       int            `json:"attempted"`
	Committed       int            `json:"committed"`
	Failed          int            `json:"failed"`
	Batches         int            `json:"batches"`
	SkippedBatches  int            `json:"skippedBatches"`
	Retries         int            `json:"retries"`
	FailuresByClass map[string]int `json:"failuresByClass,omitempty"`
}

// Merge folds other into s.
func (s *CommitStats) Merge(other CommitStats) {
	if s.Table == "" {
		s.Table = other.Table
	}
	s.Attempted += other.Attempted
	s.Committed += other.Committed
	s.Failed += other.Failed
	s.Batches += other.Batches
	s.SkippedBatches += other.SkippedBatches
	s.Retries += other.Retries
	for class, n := range other.FailuresByClass {
		if s.FailuresByClass == nil {
			s.FailuresByClass = make(map[string]int)
		}
		s.FailuresByClass[class] += n
	}
}

// GenerationResult is the outcome of drafting and materializing new transactions.
type GenerationResult struct {
	Requested           int            `json:"requested"`
	TransactionsCreated int            `json:"transactionsCreated"`
	TransactionsMissed  int            `json:"transactionsMissed"` // whole-transaction capture failures
	ItemsCreated        int            `json:"itemsCreated"`
	ItemsDropped        int            `json:"itemsDropped"` // sampled but not captured
	TotalsUpdated       int            `json:"totalsUpdated"`
	TierCounts          map[string]int `json:"tierCounts,omitempty"`
}

// RepairResult is the outcome of the gap repair loop.
type RepairResult struct {
	Passes        int   `json:"passes"`
	InitialGaps   int   `json:"initialGaps"`
	Repaired      int   `json:"repaired"`
	ItemsAdded    int   `json:"itemsAdded"`
	TotalsUpdated int   `json:"totalsUpdated"`
	Residual      int   `json:"residual"`
	GapsPerPass   []int `json:"gapsPerPass,omitempty"`
}

// Converged reports whether no item-less transactions remain.
func (r RepairResult) Converged() bool {
	return r.Residual == 0
}

// EnhanceResult is the outcome of adding extra items to sparse transactions.
type EnhanceResult struct {
	Examined      int `json:"examined"`
	Enhanced      int `json:"enhanced"`
	ItemsAdded    int `json:"itemsAdded"`
	TotalsUpdated int `json:"totalsUpdated"`
}

// SatelliteResult counts the flavor data written in a run.
type SatelliteResult struct {
	SubstitutionAttempts int `json:"substitutionAttempts"`
	SubstitutionsCreated int `json:"substitutionsCreated"`
	CustomersExamined    int `json:"customersExamined"`
	CustomersUpdated     int `json:"customersUpdated"`
}

// ReconciliationGrade classifies the revenue discrepancy between stored totals and item sums.
type ReconciliationGrade string

const (
	GradeExcellent      ReconciliationGrade = "excellent"
	GradeAcceptable     ReconciliationGrade = "acceptable"
	GradeNeedsAttention ReconciliationGrade = "needs attention"
)

// HistogramBucket is the number of transactions holding exactly Items items.
type HistogramBucket struct {
	Items        int   `json:"items"`
	Transactions int64 `json:"transactions"`
}

// VerificationResult is the read-only integrity summary of the dataset.
type VerificationResult struct {
	Target              int                 `json:"target"`
	TransactionCount    int64               `json:"transactionCount"`
	ItemCount           int64               `json:"itemCount"`
	ItemsPerTransaction float64             `json:"itemsPerTransaction"`
	Histogram           []HistogramBucket   `json:"histogram"`
	ZeroItemCount       int64               `json:"zeroItemCount"`
	InvalidItemCount    int64               `json:"invalidItemCount"`
	FloorViolations     int64               `json:"floorViolations"`
	StoredRevenue       decimal.Decimal     `json:"storedRevenue"`
	ItemRevenue         decimal.Decimal     `json:"itemRevenue"`
	DiscrepancyPct      float64             `json:"discrepancyPct"`
	Grade               ReconciliationGrade `json:"grade"`
	Passed              bool                `json:"passed"`
	Warnings            []string            `json:"warnings,omitempty"`
}

// TargetMet reports whether the transaction count reached the target.
func (v VerificationResult) TargetMet() bool {
	return v.TransactionCount >= int64(v.Target)
}

// RunReport is the structured result of one pipeline run. It is printed and returned.
type RunReport struct {
	RunID         string               `json:"runID"`
	Command       string               `json:"command"`
	Backend       string               `json:"backend"`
	DryRun        bool                 `json:"dryRun"`
	Profile       string               `json:"profile"`
	RepairProfile string               `json:"repairProfile,omitempty"`
	StartedAt     time.Time            `json:"startedAt"`
	FinishedAt    time.Time            `json:"finishedAt"`
	Snapshot      DatasetSnapshot      `json:"snapshot"`
	Generation    *GenerationResult    `json:"generation,omitempty"`
	Commits       []CommitStats        `json:"commits,omitempty"`
	Repair        *RepairResult        `json:"repair,omitempty"`
	Enhance       *EnhanceResult       `json:"enhance,omitempty"`
	Satellites    *SatelliteResult     `json:"satellites,omitempty"`
	Verification  *VerificationResult  `json:"verification,omitempty"`
	Warnings      []string             `json:"warnings,omitempty"`
}

// Duration returns how long the run took.
func (r RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// AddWarning appends a warning message.
func (r *RunReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// AddCommitStats folds stats into the per-table entry, creating it if needed.
func (r *RunReport) AddCommitStats(stats CommitStats) {
	for i := range r.Commits {
		if r.Commits[i].Table == stats.Table {
			r.Commits[i].Merge(stats)
			return
		}
	}
	r.Commits = append(r.Commits, stats)
}
