package services

import (
	"math"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ItemCapture is the noise model's verdict on one sampled item.
type ItemCapture struct {
	ProductID    int64
	Quantity     int
	Price        decimal.Decimal
	QuantityTier string
	PriceTier    string
	Dropped      bool // quantity or price was not captured
}

// CaptureDecision is the noise model's verdict on one transaction.
type CaptureDecision struct {
	Missed   bool   // whole transaction yielded nothing
	Tier     string // item-count tier that was drawn
	Sampled  int    // item count before per-item drops
	Captures []ItemCapture
}

// Kept returns the captures that survived both quantity and price draws.
func (d CaptureDecision) Kept() []ItemCapture {
	kept := make([]ItemCapture, 0, len(d.Captures))
	for _, c := range d.Captures {
		if !c.Dropped {
			kept = append(kept, c)
		}
	}
	return kept
}

// Dropped returns how many sampled items were lost.
func (d CaptureDecision) Dropped() int {
	return len(d.Captures) - len(d.Kept())
}

// NoiseModel simulates a lossy speech-to-text capture of a checkout.
type NoiseModel struct {
	profile domain.NoiseProfile
	rng     Rand
}

// NewNoiseModel creates a noise model. The profile is assumed to be validated.
func NewNoiseModel(profile domain.NoiseProfile, rng Rand) *NoiseModel {
	return &NoiseModel{profile: profile, rng: rng}
}

// Profile returns the profile driving the model.
func (m *NoiseModel) Profile() domain.NoiseProfile {
	return m.profile
}

// TransactionMissed draws the whole-transaction miss.
func (m *NoiseModel) TransactionMissed() bool {
	return m.rng.Float64() < m.profile.MissProbability
}

// ItemCount draws a capture quality and returns the tier name and an item count >= 1.
func (m *NoiseModel) ItemCount() (string, int) {
	quality := m.rng.Float64()
	tiers := m.profile.ItemCountTiers
	tier := tiers[len(tiers)-1]
	for _, t := range tiers {
		if quality > t.Above {
			tier = t
			break
		}
	}
	lo, hi := max(tier.Min, 1), max(tier.Max, 1)
	return tier.Name, uniformInt(m.rng, lo, hi)
}

// CaptureItem runs the quantity and price capture draws for one product.
func (m *NoiseModel) CaptureItem(product domain.Product) ItemCapture {
	capture := ItemCapture{ProductID: product.ID}

	qt := m.quantityTier(m.rng.Float64())
	capture.QuantityTier = qt.Name
	if qt.Outcome == domain.CaptureMissed {
		capture.Dropped = true
	} else {
		capture.Quantity = max(uniformInt(m.rng, qt.Min, qt.Max), 1)
	}

	pt := m.priceTier(m.rng.Float64())
	capture.PriceTier = pt.Name
	if pt.Mode == domain.PriceMissed {
		capture.Dropped = true
		return capture
	}
	capture.Price = m.price(pt, product.BasePrice().InexactFloat64())
	return capture
}

// Decide runs the full chain for one transaction: miss check, item-count tier and per-item captures.
func (m *NoiseModel) Decide(products []domain.Product) CaptureDecision {
	if m.TransactionMissed() {
		return CaptureDecision{Missed: true}
	}
	tier, n := m.ItemCount()
	decision := m.DecideCount(n, products)
	decision.Tier = tier
	return decision
}

// DecideItems is Decide without the whole-transaction miss. Used by gap repair.
func (m *NoiseModel) DecideItems(products []domain.Product) CaptureDecision {
	tier, n := m.ItemCount()
	decision := m.DecideCount(n, products)
	decision.Tier = tier
	return decision
}

// DecideCount samples exactly n products uniformly and captures each one.
func (m *NoiseModel) DecideCount(n int, products []domain.Product) CaptureDecision {
	decision := CaptureDecision{Sampled: n}
	if len(products) == 0 {
		return decision
	}
	decision.Captures = make([]ItemCapture, 0, n)
	for range n {
		decision.Captures = append(decision.Captures, m.CaptureItem(pick(m.rng, products)))
	}
	return decision
}

// Variance draws the transcription-level total misestimate.
func (m *NoiseModel) Variance() float64 {
	return uniformFloat(m.rng, m.profile.TotalVariance.Min, m.profile.TotalVariance.Max)
}

func (m *NoiseModel) quantityTier(draw float64) domain.QuantityTier {
	tiers := m.profile.QuantityTiers
	for _, t := range tiers {
		if draw > t.Above {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

func (m *NoiseModel) priceTier(draw float64) domain.PriceTier {
	tiers := m.profile.PriceTiers
	for _, t := range tiers {
		if draw > t.Above {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

func (m *NoiseModel) price(tier domain.PriceTier, base float64) decimal.Decimal {
	var p float64
	switch tier.Mode {
	case domain.PriceNear:
		p = base + uniformFloat(m.rng, -tier.Spread, tier.Spread)
	case domain.PriceRounded:
		p = math.Round((base+uniformFloat(m.rng, -tier.Spread, tier.Spread))/tier.Granularity) * tier.Granularity
	case domain.PriceScaled:
		p = base * uniformFloat(m.rng, tier.ScaleMin, tier.ScaleMax)
	default:
		p = base
	}
	p = math.Max(p, m.profile.MinPrice)
	return decimal.NewFromFloat(p).Round(2)
}
