package domain

import (
	"fmt"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DefaultBasePrice is used when a product has no canonical price.
var DefaultBasePrice = decimal.NewFromInt(50)

// Brand groups products and flags whether it is one of the analytics subject's own clients.
type Brand struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	IsClient bool   `json:"isClient"` // false for competitor brands
}

// Product is a sellable catalog entry.
type Product struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	BrandID  *int64           `json:"brandID,omitempty"`
	Category string           `json:"category"`
	Price    *decimal.Decimal `json:"price,omitempty"` // Canonical price, nullable in older datasets
}

// BasePrice returns the canonical price, or DefaultBasePrice when it is missing or not positive.
func (p Product) BasePrice() decimal.Decimal {
	if p.Price == nil || !p.Price.IsPositive() {
		return DefaultBasePrice
	}
	return *p.Price
}

// Store is a physical location transactions are attributed to.
type Store struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Region    string   `json:"region"`
	City      string   `json:"city"`
	Type      string   `json:"type"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Customer is a shopper reference. Demographic fields are filled by the satellite pass.
type Customer struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Region      string  `json:"region"`
	Age         *int    `json:"age,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	IncomeRange *string `json:"incomeRange,omitempty"`
}

// HasDemographics reports whether all demographic fields are already captured.
func (c Customer) HasDemographics() bool {
	return c.Age != nil && c.Gender != nil && c.IncomeRange != nil
}

// Catalog is the read-only reference data a generation run draws from.
type Catalog struct {
	Brands    []Brand    `json:"brands"`
	Products  []Product  `json:"products"`
	Stores    []Store    `json:"stores"`
	Customers []Customer `json:"customers"`
}

// Validate checks the catalog can drive a generation run.
func (c Catalog) Validate() error {
	if len(c.Products) == 0 {
		return fmt.Errorf("%w: no products available", apperrors.ErrEmptyCatalog)
	}
	if len(c.Stores) == 0 {
		return fmt.Errorf("%w: no stores available", apperrors.ErrEmptyCatalog)
	}
	return nil
}
