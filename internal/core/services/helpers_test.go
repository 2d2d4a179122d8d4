package services_test

import (
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/shopspring/decimal"
)

// seqRand replays scripted draws, cycling when exhausted.
type seqRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *seqRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *seqRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.ii%len(r.ints)]
	r.ii++
	return v % n
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func mustProfile(name string) domain.NoiseProfile {
	p, err := domain.BuiltinProfile(name)
	if err != nil {
		panic(err)
	}
	return p
}

func testCatalog() domain.Catalog {
	brandID := int64(1)
	age := 34
	gender := "Female"
	return domain.Catalog{
		Brands: []domain.Brand{{ID: 1, Name: "Alaska", Category: "Dairy", IsClient: true}},
		Products: []domain.Product{
			{ID: 10, Name: "Alaska Evap 370ml", BrandID: &brandID, Category: "Dairy", Price: decimalPtr("42.50")},
			{ID: 11, Name: "Alaska Condensada", BrandID: &brandID, Category: "Dairy", Price: decimalPtr("58.00")},
			{ID: 12, Name: "Unbranded Bread", Category: "Bakery"},
		},
		Stores: []domain.Store{
			{ID: 100, Name: "Sari-Sari Quiapo", Location: "Manila", Region: "NCR", City: "Manila", Type: "sari-sari"},
			{ID: 101, Name: "Sari-Sari Lahug", Location: "Cebu", Region: "VII", City: "Cebu City", Type: "sari-sari"},
		},
		Customers: []domain.Customer{
			{ID: 1000, Name: "Maria Santos", Region: "NCR", Age: &age, Gender: &gender},
			{ID: 1001, Name: "Juan Dela Cruz", Region: "VII"},
		},
	}
}

func testWindow() domain.DateWindow {
	return domain.DateWindow{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}
