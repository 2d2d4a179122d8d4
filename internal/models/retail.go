package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Brand is the storage row of the brands table.
// IsTBWA marks brands belonging to the agency's own client roster.
type Brand struct {
	ID       int64   `json:"id,omitempty"`
	Name     string  `json:"name"`
	Category *string `json:"category"` // Nullable
	IsTBWA   *bool   `json:"is_tbwa"`  // Nullable in older datasets
}

// Product is the storage row of the products table.
type Product struct {
	ID       int64            `json:"id,omitempty"`
	Name     string           `json:"name"`
	BrandID  *int64           `json:"brand_id"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
}

// Store is the storage row of the stores table.
type Store struct {
	ID        int64    `json:"id,omitempty"`
	Name      string   `json:"name"`
	Location  *string  `json:"location"`
	Region    *string  `json:"region"`
	City      *string  `json:"city"`
	StoreType *string  `json:"store_type"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Customer is the storage row of the customers table.
type Customer struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name"`
	Region      string  `json:"region"`
	Age         *int    `json:"age"`
	Gender      *string `json:"gender"`
	IncomeRange *string `json:"income_range"`
}

// Transaction is the storage row of the transactions table.
type Transaction struct {
	ID              int64           `json:"id,omitempty"`
	StoreID         int64           `json:"store_id"`
	CustomerID      *int64          `json:"customer_id"`
	CreatedAt       time.Time       `json:"created_at"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   *string         `json:"payment_method"`
	CheckoutSeconds *int            `json:"checkout_seconds"`
	IsWeekend       *bool           `json:"is_weekend"`
	StoreLocation   *string         `json:"store_location"`
	CustomerAge     *int            `json:"customer_age"`
	CustomerGender  *string         `json:"customer_gender"`
}

// TransactionItem is the storage row of the transaction_items table.
type TransactionItem struct {
	ID            int64           `json:"id,omitempty"`
	TransactionID int64           `json:"transaction_id"`
	ProductID     int64           `json:"product_id"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
}

// Substitution is the storage row of the substitutions table.
type Substitution struct {
	ID                  int64     `json:"id,omitempty"`
	OriginalProductID   int64     `json:"original_product_id"`
	SubstituteProductID int64     `json:"substitute_product_id"`
	TransactionID       *int64    `json:"transaction_id"`
	Reason              string    `json:"reason"`
	StoreLocation       string    `json:"store_location"`
	CreatedAt           time.Time `json:"created_at"`
}

// TransactionFill is an aggregate row: one transaction with its item count and item sum.
type TransactionFill struct {
	Transaction
	ItemCount int             `json:"item_count"`
	ItemSum   decimal.Decimal `json:"item_sum"`
}
