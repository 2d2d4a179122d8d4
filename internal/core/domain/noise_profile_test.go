package domain_test

import (
	"testing"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinProfiles_AreValid(t *testing.T) {
	for _, name := range domain.BuiltinProfileNames() {
		t.Run(name, func(t *testing.T) {
			profile, err := domain.BuiltinProfile(name)
			require.NoError(t, err)
			assert.Equal(t, name, profile.Name)
			assert.NoError(t, profile.Validate())
		})
	}
}

func TestBuiltinProfile_Unknown(t *testing.T) {
	_, err := domain.BuiltinProfile("does-not-exist")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNoiseProfile_NeverDrops(t *testing.T) {
	repair, err := domain.BuiltinProfile(domain.ProfileMinimumItems)
	require.NoError(t, err)
	assert.True(t, repair.NeverDrops())

	lossy, err := domain.BuiltinProfile(domain.ProfileFillGaps)
	require.NoError(t, err)
	assert.False(t, lossy.NeverDrops())
}

func TestNoiseProfile_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *domain.NoiseProfile)
	}{
		{
			name:   "miss probability too high",
			mutate: func(p *domain.NoiseProfile) { p.MissProbability = 0.75 },
		},
		{
			name:   "floor ratio below 70 percent",
			mutate: func(p *domain.NoiseProfile) { p.TotalVariance.FloorRatio = 0.5 },
		},
		{
			name:   "variance above 50 percent",
			mutate: func(p *domain.NoiseProfile) { p.TotalVariance.Max = 0.8 },
		},
		{
			name:   "only two count tiers",
			mutate: func(p *domain.NoiseProfile) { p.ItemCountTiers = p.ItemCountTiers[:2] },
		},
		{
			name: "count tiers out of order",
			mutate: func(p *domain.NoiseProfile) {
				p.ItemCountTiers[0], p.ItemCountTiers[1] = p.ItemCountTiers[1], p.ItemCountTiers[0]
			},
		},
		{
			name:   "count tier max below min",
			mutate: func(p *domain.NoiseProfile) { p.ItemCountTiers[0].Max = 1 },
		},
		{
			name:   "unknown quantity outcome",
			mutate: func(p *domain.NoiseProfile) { p.QuantityTiers[0].Outcome = "garbled" },
		},
		{
			name:   "clear quantity capturing zero units",
			mutate: func(p *domain.NoiseProfile) { p.QuantityTiers[0].Min = 0 },
		},
		{
			name:   "rounded price without granularity",
			mutate: func(p *domain.NoiseProfile) { p.PriceTiers[1].Granularity = 0 },
		},
		{
			name:   "zero minimum price",
			mutate: func(p *domain.NoiseProfile) { p.MinPrice = 0 },
		},
		{
			name:   "missing name",
			mutate: func(p *domain.NoiseProfile) { p.Name = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := domain.BuiltinProfile(domain.ProfileFillGaps)
			require.NoError(t, err)
			tt.mutate(&profile)
			assert.ErrorIs(t, profile.Validate(), apperrors.ErrValidation)
		})
	}
}

func TestNoiseProfile_Summary(t *testing.T) {
	profile, err := domain.BuiltinProfile(domain.ProfileFillGaps)
	require.NoError(t, err)

	summary := profile.Summary()
	assert.Contains(t, summary, "miss=5%")
	assert.Contains(t, summary, "high>0.70:2-4")
	assert.Contains(t, summary, "floor=80%")
}
