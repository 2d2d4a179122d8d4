package domain

import (
	"fmt"
	"sort"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
)

// Built-in noise profile names.
const (
	ProfileFillGaps     = "fill-gaps"
	ProfileMinimumItems = "minimum-items"
	ProfileEnhance      = "enhance"
	ProfileBackfill     = "backfill"
	ProfileComplete     = "complete"
)

var builtinProfiles = map[string]func() NoiseProfile{
	ProfileFillGaps:     fillGapsProfile,
	ProfileMinimumItems: minimumItemsProfile,
	ProfileEnhance:      enhanceProfile,
	ProfileBackfill:     backfillProfile,
	ProfileComplete:     completeProfile,
}

// BuiltinProfile returns a fresh copy of a named built-in profile.
func BuiltinProfile(name string) (NoiseProfile, error) {
	build, ok := builtinProfiles[name]
	if !ok {
		return NoiseProfile{}, fmt.Errorf("%w: unknown noise profile %q", apperrors.ErrNotFound, name)
	}
	return build(), nil
}

// BuiltinProfileNames lists the built-in profiles in name order.
func BuiltinProfileNames() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fillGapsProfile is the lossy first-pass capture: whole transactions can be missed
// and items are dropped when quantity or price was not heard.
func fillGapsProfile() NoiseProfile {
	return NoiseProfile{
		Name:            ProfileFillGaps,
		Description:     "lossy first-pass capture with whole-transaction misses and dropped items",
		MissProbability: 0.05,
		ItemCountTiers: []CountTier{
			{Name: "high", Above: 0.7, Min: 2, Max: 4},
			{Name: "medium", Above: 0.4, Min: 1, Max: 2},
			{Name: "low", Above: 0, Min: 1, Max: 1},
		},
		QuantityTiers: []QuantityTier{
			{Name: "clear", Above: 0.8, Outcome: CaptureClear, Min: 1, Max: 3},
			{Name: "partial", Above: 0.6, Outcome: CapturePartial, Min: 1, Max: 1},
			{Name: "missed", Above: 0, Outcome: CaptureMissed},
		},
		PriceTiers: []PriceTier{
			{Name: "near", Above: 0.7, Mode: PriceNear, Spread: 10},
			{Name: "rounded", Above: 0.4, Mode: PriceRounded, Spread: 20, Granularity: 10},
			{Name: "missed", Above: 0, Mode: PriceMissed},
		},
		MinPrice:      1,
		TotalVariance: TotalVariance{Min: -0.10, Max: 0.10, FloorRatio: 0.8},
	}
}

// minimumItemsProfile never drops: every sampled item is materialized. Used by gap repair.
func minimumItemsProfile() NoiseProfile {
	return NoiseProfile{
		Name:            ProfileMinimumItems,
		Description:     "high-success capture guaranteeing at least one item per transaction",
		MissProbability: 0,
		ItemCountTiers: []CountTier{
			{Name: "high", Above: 0.8, Min: 2, Max: 5},
			{Name: "medium", Above: 0.5, Min: 1, Max: 3},
			{Name: "fair", Above: 0.2, Min: 1, Max: 2},
			{Name: "low", Above: 0, Min: 1, Max: 1},
		},
		QuantityTiers: []QuantityTier{
			{Name: "clear", Above: 0.7, Outcome: CaptureClear, Min: 1, Max: 3},
			{Name: "partial", Above: 0.4, Outcome: CapturePartial, Min: 1, Max: 2},
			{Name: "default", Above: 0, Outcome: CapturePartial, Min: 1, Max: 1},
		},
		PriceTiers: []PriceTier{
			{Name: "near", Above: 0.6, Mode: PriceNear, Spread: 15},
			{Name: "rounded", Above: 0.3, Mode: PriceRounded, Spread: 20, Granularity: 10},
			{Name: "scaled", Above: 0, Mode: PriceScaled, ScaleMin: 0.7, ScaleMax: 1.3},
		},
		MinPrice:      5,
		TotalVariance: TotalVariance{Min: -0.20, Max: 0.20, FloorRatio: 0.8},
	}
}

// enhanceProfile captures extra items on transactions that already have a few.
func enhanceProfile() NoiseProfile {
	return NoiseProfile{
		Name:            ProfileEnhance,
		Description:     "adds extra captured items to sparse transactions",
		MissProbability: 0,
		ItemCountTiers: []CountTier{
			{Name: "high", Above: 0.7, Min: 2, Max: 5},
			{Name: "medium", Above: 0.3, Min: 1, Max: 3},
			{Name: "low", Above: 0, Min: 1, Max: 1},
		},
		QuantityTiers: []QuantityTier{
			{Name: "clear", Above: 0.8, Outcome: CaptureClear, Min: 1, Max: 3},
			{Name: "partial", Above: 0.5, Outcome: CapturePartial, Min: 1, Max: 1},
			{Name: "default", Above: 0.1, Outcome: CapturePartial, Min: 1, Max: 1},
			{Name: "missed", Above: 0, Outcome: CaptureMissed},
		},
		PriceTiers: []PriceTier{
			{Name: "near", Above: 0.7, Mode: PriceNear, Spread: 10},
			{Name: "rounded", Above: 0.4, Mode: PriceRounded, Spread: 15, Granularity: 10},
			{Name: "coarse", Above: 0.2, Mode: PriceRounded, Spread: 25, Granularity: 25},
			{Name: "scaled", Above: 0, Mode: PriceScaled, ScaleMin: 0.8, ScaleMax: 1.2},
		},
		MinPrice:      1,
		TotalVariance: TotalVariance{Min: -0.15, Max: 0.15, FloorRatio: 0.7},
	}
}

// backfillProfile fills transactions that have no items at all with a moderate spread.
func backfillProfile() NoiseProfile {
	return NoiseProfile{
		Name:            ProfileBackfill,
		Description:     "bulk backfill of item-less transactions",
		MissProbability: 0,
		ItemCountTiers: []CountTier{
			{Name: "high", Above: 0.7, Min: 2, Max: 4},
			{Name: "medium", Above: 0.3, Min: 1, Max: 2},
			{Name: "low", Above: 0, Min: 1, Max: 1},
		},
		QuantityTiers: []QuantityTier{
			{Name: "clear", Above: 0, Outcome: CaptureClear, Min: 1, Max: 3},
		},
		PriceTiers: []PriceTier{
			{Name: "scaled", Above: 0, Mode: PriceScaled, ScaleMin: 0.8, ScaleMax: 1.2},
		},
		MinPrice:      1,
		TotalVariance: TotalVariance{Min: -0.10, Max: 0.10, FloorRatio: 0.8},
	}
}

// completeProfile is used when regenerating a dataset from scratch: dense, low-noise capture.
func completeProfile() NoiseProfile {
	return NoiseProfile{
		Name:            ProfileComplete,
		Description:     "dense low-noise capture for full dataset regeneration",
		MissProbability: 0,
		ItemCountTiers: []CountTier{
			{Name: "excellent", Above: 0.8, Min: 3, Max: 5},
			{Name: "good", Above: 0.5, Min: 2, Max: 4},
			{Name: "fair", Above: 0.2, Min: 1, Max: 2},
			{Name: "poor", Above: 0, Min: 1, Max: 1},
		},
		QuantityTiers: []QuantityTier{
			{Name: "clear", Above: 0, Outcome: CaptureClear, Min: 1, Max: 3},
		},
		PriceTiers: []PriceTier{
			{Name: "scaled", Above: 0, Mode: PriceScaled, ScaleMin: 0.85, ScaleMax: 1.15},
		},
		MinPrice:      10,
		TotalVariance: TotalVariance{Min: -0.05, Max: 0.05, FloorRatio: 0.95},
	}
}

// EnhanceRule adds between Min and Max extra items, with the given probability,
// to transactions currently holding exactly ExistingItems items.
type EnhanceRule struct {
	ExistingItems int     `yaml:"existing_items" json:"existing_items" validate:"gte=0"`
	Probability   float64 `yaml:"probability" json:"probability" validate:"gte=0,lte=1"`
	Min           int     `yaml:"min" json:"min" validate:"gte=1"`
	Max           int     `yaml:"max" json:"max" validate:"gtefield=Min"`
}

// DefaultEnhanceRules boosts sparse transactions: 0, 1 or 2 existing items.
func DefaultEnhanceRules() []EnhanceRule {
	return []EnhanceRule{
		{ExistingItems: 0, Probability: 0.8, Min: 1, Max: 3},
		{ExistingItems: 1, Probability: 0.6, Min: 1, Max: 2},
		{ExistingItems: 2, Probability: 0.4, Min: 1, Max: 1},
	}
}
