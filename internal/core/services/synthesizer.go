package services

import (
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/shopspring/decimal"
)

var paymentMethods = []string{"Cash", "GCash", "Maya", "Credit Card", "Debit Card"}

var customerGenders = []string{"Male", "Female"}

// Synthesizer drafts transactions before any item exists.
type Synthesizer struct {
	rng Rand
}

// NewSynthesizer creates a transaction synthesizer.
func NewSynthesizer(rng Rand) *Synthesizer {
	return &Synthesizer{rng: rng}
}

// Draft produces n transaction drafts with a uniform timestamp in the window, a uniform
// store and, when the pool is non-empty, a uniform customer. Totals are placeholders.
func (s *Synthesizer) Draft(n int, window domain.DateWindow, catalog domain.Catalog) []domain.Transaction {
	if n <= 0 || len(catalog.Stores) == 0 {
		return nil
	}
	span := window.End.Sub(window.Start)
	drafts := make([]domain.Transaction, 0, n)
	for range n {
		drafts = append(drafts, s.draftOne(window.Start, span, catalog))
	}
	return drafts
}

func (s *Synthesizer) draftOne(start time.Time, span time.Duration, catalog domain.Catalog) domain.Transaction {
	createdAt := start.Add(time.Duration(s.rng.Float64() * float64(span)))
	store := pick(s.rng, catalog.Stores)

	checkout := uniformInt(s.rng, 30, 330)
	weekday := createdAt.Weekday()
	weekend := weekday == time.Saturday || weekday == time.Sunday
	payment := pick(s.rng, paymentMethods)
	location := store.Location

	txn := domain.Transaction{
		StoreID:         store.ID,
		CreatedAt:       createdAt,
		TotalAmount:     decimal.NewFromInt(int64(uniformInt(s.rng, 100, 2100))),
		PaymentMethod:   &payment,
		CheckoutSeconds: &checkout,
		IsWeekend:       &weekend,
		StoreLocation:   &location,
	}

	if len(catalog.Customers) > 0 {
		customer := pick(s.rng, catalog.Customers)
		id := customer.ID
		txn.CustomerID = &id
		txn.CustomerAge = customer.Age
		txn.CustomerGender = customer.Gender
	}
	return txn
}
