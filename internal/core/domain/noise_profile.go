package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

// CaptureOutcome is how well a quantity was heard.
type CaptureOutcome string

const (
	CaptureClear   CaptureOutcome = "clear"   // accurate value drawn from [Min, Max]
	CapturePartial CaptureOutcome = "partial" // defaulted to a small value from [Min, Max]
	CaptureMissed  CaptureOutcome = "missed"  // item is dropped
)

// PriceMode is how a captured price relates to the product's canonical price.
type PriceMode string

const (
	PriceNear    PriceMode = "near"    // base +/- Spread
	PriceRounded PriceMode = "rounded" // (base +/- Spread) rounded to Granularity
	PriceScaled  PriceMode = "scaled"  // base x [ScaleMin, ScaleMax]
	PriceMissed  PriceMode = "missed"  // item is dropped
)

// CountTier maps a capture-quality draw above Above to an item count in [Min, Max].
type CountTier struct {
	Name  string  `yaml:"name" json:"name" validate:"required"`
	Above float64 `yaml:"above" json:"above" validate:"gte=0,lt=1"`
	Min   int     `yaml:"min" json:"min" validate:"gte=0"`
	Max   int     `yaml:"max" json:"max" validate:"gtefield=Min"`
}

// QuantityTier decides how an item's quantity was captured.
type QuantityTier struct {
	Name    string         `yaml:"name" json:"name" validate:"required"`
	Above   float64        `yaml:"above" json:"above" validate:"gte=0,lt=1"`
	Outcome CaptureOutcome `yaml:"outcome" json:"outcome" validate:"oneof=clear partial missed"`
	Min     int            `yaml:"min,omitempty" json:"min,omitempty" validate:"gte=0"`
	Max     int            `yaml:"max,omitempty" json:"max,omitempty" validate:"gtefield=Min"`
}

// PriceTier decides how an item's unit price was captured.
type PriceTier struct {
	Name        string    `yaml:"name" json:"name" validate:"required"`
	Above       float64   `yaml:"above" json:"above" validate:"gte=0,lt=1"`
	Mode        PriceMode `yaml:"mode" json:"mode" validate:"oneof=near rounded scaled missed"`
	Spread      float64   `yaml:"spread,omitempty" json:"spread,omitempty" validate:"gte=0"`
	Granularity float64   `yaml:"granularity,omitempty" json:"granularity,omitempty" validate:"gte=0"`
	ScaleMin    float64   `yaml:"scale_min,omitempty" json:"scale_min,omitempty" validate:"gte=0"`
	ScaleMax    float64   `yaml:"scale_max,omitempty" json:"scale_max,omitempty" validate:"gtefield=ScaleMin"`
}

// TotalVariance bounds the transcription-level misestimate applied to a transaction total.
type TotalVariance struct {
	Min        float64 `yaml:"min" json:"min" validate:"gte=-0.5,lte=0"`
	Max        float64 `yaml:"max" json:"max" validate:"gte=0,lte=0.5"`
	FloorRatio float64 `yaml:"floor_ratio" json:"floor_ratio" validate:"gte=0.7,lte=1"`
}

// NoiseProfile parameterizes the STT capture simulation.
type NoiseProfile struct {
	Name            string         `yaml:"name" json:"name" validate:"required"`
	Description     string         `yaml:"description,omitempty" json:"description,omitempty"`
	MissProbability float64        `yaml:"miss_probability" json:"miss_probability" validate:"gte=0,lte=0.5"`
	ItemCountTiers  []CountTier    `yaml:"item_count_tiers" json:"item_count_tiers" validate:"min=3,dive"`
	QuantityTiers   []QuantityTier `yaml:"quantity_tiers" json:"quantity_tiers" validate:"min=1,dive"`
	PriceTiers      []PriceTier    `yaml:"price_tiers" json:"price_tiers" validate:"min=1,dive"`
	MinPrice        float64        `yaml:"min_price" json:"min_price" validate:"gte=0.01"`
	TotalVariance   TotalVariance  `yaml:"total_variance" json:"total_variance"`
}

var profileValidator = validator.New()

// Validate checks field bounds and that every tier list is ordered by descending threshold.
func (p NoiseProfile) Validate() error {
	if err := profileValidator.Struct(p); err != nil {
		return fmt.Errorf("%w: noise profile %q: %s", apperrors.ErrValidation, p.Name, err.Error())
	}

	if err := checkDescending("item_count_tiers", len(p.ItemCountTiers), func(i int) float64 { return p.ItemCountTiers[i].Above }); err != nil {
		return fmt.Errorf("%w: noise profile %q: %s", apperrors.ErrValidation, p.Name, err.Error())
	}
	if err := checkDescending("quantity_tiers", len(p.QuantityTiers), func(i int) float64 { return p.QuantityTiers[i].Above }); err != nil {
		return fmt.Errorf("%w: noise profile %q: %s", apperrors.ErrValidation, p.Name, err.Error())
	}
	if err := checkDescending("price_tiers", len(p.PriceTiers), func(i int) float64 { return p.PriceTiers[i].Above }); err != nil {
		return fmt.Errorf("%w: noise profile %q: %s", apperrors.ErrValidation, p.Name, err.Error())
	}

	for _, t := range p.QuantityTiers {
		if t.Outcome != CaptureMissed && t.Min < 1 {
			return fmt.Errorf("%w: noise profile %q: quantity tier %q must capture at least 1 unit", apperrors.ErrValidation, p.Name, t.Name)
		}
	}
	for _, t := range p.PriceTiers {
		switch t.Mode {
		case PriceRounded:
			if t.Granularity <= 0 {
				return fmt.Errorf("%w: noise profile %q: price tier %q needs a positive granularity", apperrors.ErrValidation, p.Name, t.Name)
			}
		case PriceScaled:
			if t.ScaleMin <= 0 {
				return fmt.Errorf("%w: noise profile %q: price tier %q needs a positive scale range", apperrors.ErrValidation, p.Name, t.Name)
			}
		}
	}
	return nil
}

// NeverDrops reports whether no tier can drop an item or miss a whole transaction.
func (p NoiseProfile) NeverDrops() bool {
	if p.MissProbability > 0 {
		return false
	}
	for _, t := range p.QuantityTiers {
		if t.Outcome == CaptureMissed {
			return false
		}
	}
	for _, t := range p.PriceTiers {
		if t.Mode == PriceMissed {
			return false
		}
	}
	return true
}

func checkDescending(field string, n int, above func(int) float64) error {
	for i := 1; i < n; i++ {
		if above(i) >= above(i-1) {
			return fmt.Errorf("%s must be ordered by descending 'above' (index %d)", field, i)
		}
	}
	return nil
}

// Summary renders the profile's tiers on one line for logs and reports.
func (p NoiseProfile) Summary() string {
	parts := make([]string, 0, len(p.ItemCountTiers))
	for _, t := range p.ItemCountTiers {
		parts = append(parts, fmt.Sprintf("%s>%.2f:%d-%d", t.Name, t.Above, t.Min, t.Max))
	}
	return fmt.Sprintf("miss=%.0f%% tiers=[%s] variance=%+.0f%%..%+.0f%% floor=%.0f%%",
		p.MissProbability*100, strings.Join(parts, " "),
		p.TotalVariance.Min*100, p.TotalVariance.Max*100, p.TotalVariance.FloorRatio*100)
}
