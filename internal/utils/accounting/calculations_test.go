package accounting_test

import (
	"testing"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/SscSPs/retail_stt_seeder/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPerturbedTotal(t *testing.T) {
	sum := decimal.NewFromInt(200)

	tests := []struct {
		name       string
		variance   float64
		floorRatio float64
		want       string
	}{
		{name: "upward variance", variance: 0.10, floorRatio: 0.8, want: "220"},
		{name: "downward variance above floor", variance: -0.15, floorRatio: 0.8, want: "170"},
		{name: "downward variance floored", variance: -0.25, floorRatio: 0.8, want: "160"},
		{name: "no variance", variance: 0, floorRatio: 0.7, want: "200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.PerturbedTotal(sum, tt.variance, tt.floorRatio)
			assert.Equal(t, tt.want, got.String())
			assert.True(t, accounting.MeetsFloor(got, sum, tt.floorRatio))
		})
	}
}

func TestPerturbedTotal_FloorNeverRoundsDown(t *testing.T) {
	sum := decimal.RequireFromString("12.51")
	got := accounting.PerturbedTotal(sum, -0.5, 0.8)

	// 0.8 x 12.51 = 10.008, rounded up to the cent
	assert.Equal(t, "10.01", got.String())
	assert.True(t, accounting.MeetsFloor(got, sum, 0.8))
}

func TestDiscrepancyPct(t *testing.T) {
	assert.Equal(t, 0.0, accounting.DiscrepancyPct(decimal.Zero, decimal.Zero))
	assert.Equal(t, 100.0, accounting.DiscrepancyPct(decimal.NewFromInt(5), decimal.Zero))
	assert.Equal(t, 10.0, accounting.DiscrepancyPct(decimal.NewFromInt(110), decimal.NewFromInt(100)))
	assert.Equal(t, 4.5, accounting.DiscrepancyPct(decimal.NewFromFloat(95.5), decimal.NewFromInt(100)))
}

func TestGradeDiscrepancy(t *testing.T) {
	assert.Equal(t, domain.GradeExcellent, accounting.GradeDiscrepancy(0))
	assert.Equal(t, domain.GradeExcellent, accounting.GradeDiscrepancy(4.99))
	assert.Equal(t, domain.GradeAcceptable, accounting.GradeDiscrepancy(5))
	assert.Equal(t, domain.GradeAcceptable, accounting.GradeDiscrepancy(14.9))
	assert.Equal(t, domain.GradeNeedsAttention, accounting.GradeDiscrepancy(15))
}
