package mapping

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/SscSPs/retail_stt_seeder/internal/models"
)

func TestBrandMapping(t *testing.T) {
	tests := []struct {
		name   string
		model  models.Brand
		expect domain.Brand
	}{
		{
			name:   "client brand",
			model:  models.Brand{ID: 1, Name: "Alaska", Category: optString("Dairy"), IsTBWA: boolPtr(true)},
			expect: domain.Brand{ID: 1, Name: "Alaska", Category: "Dairy", IsClient: true},
		},
		{
			name:   "nullable columns",
			model:  models.Brand{ID: 2, Name: "Generic"},
			expect: domain.Brand{ID: 2, Name: "Generic"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ToDomainBrand(tt.model))
		})
	}
}

func TestToModelBrand_EmptyCategoryIsNull(t *testing.T) {
	m := ToModelBrand(domain.Brand{Name: "Generic"})
	assert.Nil(t, m.Category)
	require.NotNil(t, m.IsTBWA)
	assert.False(t, *m.IsTBWA)
}

func TestProductMapping_KeepsPrice(t *testing.T) {
	price := decimal.RequireFromString("42.50")
	d := domain.Product{ID: 10, Name: "Evap", Category: "Dairy", Price: &price}

	back := ToDomainProduct(ToModelProduct(d))

	require.NotNil(t, back.Price)
	assert.True(t, price.Equal(*back.Price))
	assert.Equal(t, "Dairy", back.Category)
}

func TestToDomainSlice(t *testing.T) {
	rows := []models.Brand{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}

	got := ToDomainSlice(rows, ToDomainBrand)

	require.Len(t, got, 2)
	assert.Equal(t, "B", got[1].Name)
	assert.Empty(t, ToDomainSlice([]models.Brand{}, ToDomainBrand))
}

func boolPtr(b bool) *bool { return &b }
