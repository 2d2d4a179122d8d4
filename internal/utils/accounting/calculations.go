package accounting

import (
	"math"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Reconciliation thresholds, in percent of the item revenue.
const (
	ExcellentThresholdPct  = 5.0
	AcceptableThresholdPct = 15.0
)

// PerturbedTotal applies a transcription-level variance to an item sum and floors the result
// at floorRatio x sum. The result is rounded to 2 dp and never rounds below the floor.
func PerturbedTotal(sum decimal.Decimal, variance, floorRatio float64) decimal.Decimal {
	perturbed := sum.Mul(decimal.NewFromFloat(1 + variance)).Round(2)
	floor := sum.Mul(decimal.NewFromFloat(floorRatio)).RoundCeil(2)
	return decimal.Max(perturbed, floor)
}

// MeetsFloor reports whether total >= floorRatio x sum.
func MeetsFloor(total, sum decimal.Decimal, floorRatio float64) bool {
	return total.GreaterThanOrEqual(sum.Mul(decimal.NewFromFloat(floorRatio)))
}

// DiscrepancyPct returns |stored - items| / items as a percentage.
// With no item revenue it is 0 when nothing is stored either, else 100.
func DiscrepancyPct(stored, items decimal.Decimal) float64 {
	if items.IsZero() {
		if stored.IsZero() {
			return 0
		}
		return 100
	}
	pct := stored.Sub(items).Abs().Div(items).Mul(decimal.NewFromInt(100)).InexactFloat64()
	return math.Round(pct*100) / 100
}

// GradeDiscrepancy classifies a revenue discrepancy percentage.
func GradeDiscrepancy(pct float64) domain.ReconciliationGrade {
	switch {
	case pct < ExcellentThresholdPct:
		return domain.GradeExcellent
	case pct < AcceptableThresholdPct:
		return domain.GradeAcceptable
	default:
		return domain.GradeNeedsAttention
	}
}
