package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Transaction represents one simulated checkout event.
type Transaction struct {
	ID              int64           `json:"id"`                        // Assigned by the store
	StoreID         int64           `json:"storeID"`                   // FK -> Store.ID (Not Null)
	CustomerID      *int64          `json:"customerID,omitempty"`      // Nullable when no customer pool exists
	CreatedAt       time.Time       `json:"createdAt"`                 // Checkout timestamp inside the generation window
	TotalAmount     decimal.Decimal `json:"totalAmount"`               // 2 dp; provisional until items are materialized
	PaymentMethod   *string         `json:"paymentMethod,omitempty"`   // Nullable
	CheckoutSeconds *int            `json:"checkoutSeconds,omitempty"` // Nullable
	IsWeekend       *bool           `json:"isWeekend,omitempty"`       // Nullable
	StoreLocation   *string         `json:"storeLocation,omitempty"`   // Copied from the store at draft time
	CustomerAge     *int            `json:"customerAge,omitempty"`     // Nullable
	CustomerGender  *string         `json:"customerGender,omitempty"`  // Nullable
}

// TransactionItem is one product line within a transaction.
type TransactionItem struct {
	ID            int64           `json:"id"`
	TransactionID int64           `json:"transactionID"` // FK -> Transaction.ID (Not Null)
	ProductID     int64           `json:"productID"`     // FK -> Product.ID (Not Null)
	Quantity      int             `json:"quantity"`      // >= 1
	Price         decimal.Decimal `json:"price"`         // Unit price, > 0
}

// LineTotal returns quantity x price.
func (i TransactionItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Validate checks the item invariants: quantity >= 1 and price > 0.
func (i TransactionItem) Validate() error {
	if i.Quantity < 1 {
		return fmt.Errorf("%w: item quantity must be at least 1, got %d", apperrors.ErrValidation, i.Quantity)
	}
	if !i.Price.IsPositive() {
		return fmt.Errorf("%w: item price must be positive, got %s", apperrors.ErrValidation, i.Price.String())
	}
	return nil
}

// SumItems returns the sum of quantity x price over the given items.
func SumItems(items []TransactionItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// TransactionFill is a transaction together with the items it currently owns.
type TransactionFill struct {
	Transaction Transaction     `json:"transaction"`
	ItemCount   int             `json:"itemCount"`
	ItemSum     decimal.Decimal `json:"itemSum"` // Sum of quantity x price over existing items
}

// TotalUpdate sets a new stored total on an existing transaction.
type TotalUpdate struct {
	TransactionID int64           `json:"transactionID"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

// DateWindow is the half-open range [Start, End) transactions are drawn from.
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate ensures the window is non-empty.
func (w DateWindow) Validate() error {
	if !w.End.After(w.Start) {
		return fmt.Errorf("%w: date window end %s must be after start %s", apperrors.ErrValidation,
			w.End.Format(time.DateOnly), w.Start.Format(time.DateOnly))
	}
	return nil
}
