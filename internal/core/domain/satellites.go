package domain

import "time"

// Substitution records a simulated original -> substitute product pairing.
type Substitution struct {
	ID                  int64     `json:"id"`
	OriginalProductID   int64     `json:"originalProductID"`
	SubstituteProductID int64     `json:"substituteProductID"`
	TransactionID       *int64    `json:"transactionID,omitempty"` // Nullable
	Reason              string    `json:"reason"`
	StoreLocation       string    `json:"storeLocation"`
	CreatedAt           time.Time `json:"createdAt"`
}

// DemographicUpdate fills captured demographic fields on an existing customer.
// Nil fields were not captured and are left untouched.
type DemographicUpdate struct {
	CustomerID  int64   `json:"customerID"`
	Age         *int    `json:"age,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	IncomeRange *string `json:"incomeRange,omitempty"`
}

// IsEmpty reports whether nothing was captured.
func (u DemographicUpdate) IsEmpty() bool {
	return u.Age == nil && u.Gender == nil && u.IncomeRange == nil
}
