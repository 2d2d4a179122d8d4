package mapping

import (
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/SscSPs/retail_stt_seeder/internal/models"
)

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToModelBrand converts a domain Brand to a model Brand
func ToModelBrand(d domain.Brand) models.Brand {
	isClient := d.IsClient
	return models.Brand{
		ID:       d.ID,
		Name:     d.Name,
		Category: optString(d.Category),
		IsTBWA:   &isClient,
	}
}

// ToDomainBrand converts a model Brand to a domain Brand
func ToDomainBrand(m models.Brand) domain.Brand {
	return domain.Brand{
		ID:       m.ID,
		Name:     m.Name,
		Category: derefString(m.Category),
		IsClient: m.IsTBWA != nil && *m.IsTBWA,
	}
}

// ToModelProduct converts a domain Product to a model Product
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ID:       d.ID,
		Name:     d.Name,
		BrandID:  d.BrandID,
		Category: optString(d.Category),
		Price:    d.Price,
	}
}

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ID:       m.ID,
		Name:     m.Name,
		BrandID:  m.BrandID,
		Category: derefString(m.Category),
		Price:    m.Price,
	}
}

// ToModelStore converts a domain Store to a model Store
func ToModelStore(d domain.Store) models.Store {
	return models.Store{
		ID:        d.ID,
		Name:      d.Name,
		Location:  optString(d.Location),
		Region:    optString(d.Region),
		City:      optString(d.City),
		StoreType: optString(d.Type),
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
	}
}

// ToDomainStore converts a model Store to a domain Store
func ToDomainStore(m models.Store) domain.Store {
	return domain.Store{
		ID:        m.ID,
		Name:      m.Name,
		Location:  derefString(m.Location),
		Region:    derefString(m.Region),
		City:      derefString(m.City),
		Type:      derefString(m.StoreType),
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
	}
}

// ToModelCustomer converts a domain Customer to a model Customer
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		ID:          d.ID,
		Name:        d.Name,
		Region:      d.Region,
		Age:         d.Age,
		Gender:      d.Gender,
		IncomeRange: d.IncomeRange,
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		ID:          m.ID,
		Name:        m.Name,
		Region:      m.Region,
		Age:         m.Age,
		Gender:      m.Gender,
		IncomeRange: m.IncomeRange,
	}
}

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		ID:              d.ID,
		StoreID:         d.StoreID,
		CustomerID:      d.CustomerID,
		CreatedAt:       d.CreatedAt,
		TotalAmount:     d.TotalAmount,
		PaymentMethod:   d.PaymentMethod,
		CheckoutSeconds: d.CheckoutSeconds,
		IsWeekend:       d.IsWeekend,
		StoreLocation:   d.StoreLocation,
		CustomerAge:     d.CustomerAge,
		CustomerGender:  d.CustomerGender,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		ID:              m.ID,
		StoreID:         m.StoreID,
		CustomerID:      m.CustomerID,
		CreatedAt:       m.CreatedAt,
		TotalAmount:     m.TotalAmount,
		PaymentMethod:   m.PaymentMethod,
		CheckoutSeconds: m.CheckoutSeconds,
		IsWeekend:       m.IsWeekend,
		StoreLocation:   m.StoreLocation,
		CustomerAge:     m.CustomerAge,
		CustomerGender:  m.CustomerGender,
	}
}

// ToModelTransactionItem converts a domain TransactionItem to a model TransactionItem
func ToModelTransactionItem(d domain.TransactionItem) models.TransactionItem {
	return models.TransactionItem{
		ID:            d.ID,
		TransactionID: d.TransactionID,
		ProductID:     d.ProductID,
		Quantity:      d.Quantity,
		Price:         d.Price,
	}
}

// ToDomainTransactionItem converts a model TransactionItem to a domain TransactionItem
func ToDomainTransactionItem(m models.TransactionItem) domain.TransactionItem {
	return domain.TransactionItem{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		Quantity:      m.Quantity,
		Price:         m.Price,
	}
}

// ToModelSubstitution converts a domain Substitution to a model Substitution
func ToModelSubstitution(d domain.Substitution) models.Substitution {
	return models.Substitution{
		ID:                  d.ID,
		OriginalProductID:   d.OriginalProductID,
		SubstituteProductID: d.SubstituteProductID,
		TransactionID:       d.TransactionID,
		Reason:              d.Reason,
		StoreLocation:       d.StoreLocation,
		CreatedAt:           d.CreatedAt,
	}
}

// ToDomainSubstitution converts a model Substitution to a domain Substitution
func ToDomainSubstitution(m models.Substitution) domain.Substitution {
	return domain.Substitution{
		ID:                  m.ID,
		OriginalProductID:   m.OriginalProductID,
		SubstituteProductID: m.SubstituteProductID,
		TransactionID:       m.TransactionID,
		Reason:              m.Reason,
		StoreLocation:       m.StoreLocation,
		CreatedAt:           m.CreatedAt,
	}
}

// ToDomainTransactionFill converts an aggregate row to a domain TransactionFill
func ToDomainTransactionFill(m models.TransactionFill) domain.TransactionFill {
	return domain.TransactionFill{
		Transaction: ToDomainTransaction(m.Transaction),
		ItemCount:   m.ItemCount,
		ItemSum:     m.ItemSum,
	}
}

// ToDomainSlice converts model rows with the given converter
func ToDomainSlice[M, D any](rows []M, convert func(M) D) []D {
	out := make([]D, len(rows))
	for i, row := range rows {
		out[i] = convert(row)
	}
	return out
}

// ToModelSlice converts domain values with the given converter
func ToModelSlice[D, M any](values []D, convert func(D) M) []M {
	out := make([]M, len(values))
	for i, v := range values {
		out[i] = convert(v)
	}
	return out
}
