package services

import (
	"fmt"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Category names used by the fallback catalog.
const (
	CategoryCigarettes   = "Cigarettes"
	CategoryBeverages    = "Beverages"
	CategorySnacks       = "Snacks"
	CategoryPersonalCare = "Personal Care"
)

type priceBand struct {
	lo, hi int
}

var categoryPriceBands = map[string]priceBand{
	CategoryCigarettes:   {90, 150},
	CategoryBeverages:    {25, 65},
	CategorySnacks:       {30, 80},
	CategoryPersonalCare: {60, 210},
}

var defaultPriceBand = priceBand{40, 140}

var categoryVariants = map[string][]string{
	CategoryCigarettes:   {"Red", "Blue", "Gold", "Menthol", "Lights"},
	CategoryBeverages:    {"Regular", "Zero", "Diet", "Lemon", "Orange"},
	CategorySnacks:       {"Original", "BBQ", "Cheese", "Spicy", "Sweet"},
	CategoryPersonalCare: {"Shampoo", "Conditioner", "Soap", "Lotion", "Body Wash"},
}

func fallbackBrands() []domain.Brand {
	return []domain.Brand{
		{Name: "Marlboro", Category: CategoryCigarettes, IsClient: true},
		{Name: "Philip Morris", Category: CategoryCigarettes, IsClient: true},
		{Name: "Chesterfield", Category: CategoryCigarettes, IsClient: true},
		{Name: "Gatorade", Category: CategoryBeverages, IsClient: true},
		{Name: "Pepsi", Category: CategoryBeverages, IsClient: true},
		{Name: "Mountain Dew", Category: CategoryBeverages, IsClient: true},
		{Name: "Lay's", Category: CategorySnacks, IsClient: true},
		{Name: "Doritos", Category: CategorySnacks, IsClient: true},
		{Name: "Lucky Strike", Category: CategoryCigarettes},
		{Name: "Camel", Category: CategoryCigarettes},
		{Name: "Fortune", Category: CategoryCigarettes},
		{Name: "Coca-Cola", Category: CategoryBeverages},
		{Name: "Sprite", Category: CategoryBeverages},
		{Name: "Red Bull", Category: CategoryBeverages},
		{Name: "Pringles", Category: CategorySnacks},
		{Name: "Oreo", Category: CategorySnacks},
		{Name: "Pantene", Category: CategoryPersonalCare},
		{Name: "Head & Shoulders", Category: CategoryPersonalCare},
		{Name: "Safeguard", Category: CategoryPersonalCare},
		{Name: "Colgate", Category: CategoryPersonalCare},
	}
}

func fallbackStores() []domain.Store {
	const (
		manila   = "Manila Central"
		cebu     = "Cebu City Center"
		davao    = "Davao Downtown"
		southern = "Region IV-A, Cavite, Tagaytay, Kaybagal"
	)
	return []domain.Store{
		{Name: "SM Manila", Location: manila, Region: "NCR", City: "Manila", Type: "Mall"},
		{Name: "Robinsons Ermita", Location: manila, Region: "NCR", City: "Manila", Type: "Mall"},
		{Name: "Ministop Makati", Location: manila, Region: "NCR", City: "Makati", Type: "Convenience"},
		{Name: "7-Eleven BGC", Location: manila, Region: "NCR", City: "Taguig", Type: "Convenience"},
		{Name: "Mercury Drug QC", Location: manila, Region: "NCR", City: "Quezon City", Type: "Pharmacy"},
		{Name: "SM City Cebu", Location: cebu, Region: "Central Visayas", City: "Cebu City", Type: "Mall"},
		{Name: "Ayala Center Cebu", Location: cebu, Region: "Central Visayas", City: "Cebu City", Type: "Mall"},
		{Name: "Gaisano Grand", Location: cebu, Region: "Central Visayas", City: "Cebu City", Type: "Department Store"},
		{Name: "SM Lanang Premier", Location: davao, Region: "Davao", City: "Davao City", Type: "Mall"},
		{Name: "Abreeza Mall", Location: davao, Region: "Davao", City: "Davao City", Type: "Mall"},
		{Name: "SM Santa Rosa", Location: southern, Region: "CALABARZON", City: "Santa Rosa", Type: "Mall"},
		{Name: "Robinsons Lipa", Location: southern, Region: "CALABARZON", City: "Lipa", Type: "Mall"},
	}
}

// fallbackProducts builds 3-5 products per brand, priced inside the brand category's band.
func fallbackProducts(rng Rand, brands []domain.Brand) []domain.Product {
	products := make([]domain.Product, 0, len(brands)*5)
	for _, brand := range brands {
		band, ok := categoryPriceBands[brand.Category]
		if !ok {
			band = defaultPriceBand
		}
		variants := categoryVariants[brand.Category]
		count := uniformInt(rng, 3, 5)
		for i := range count {
			name := fmt.Sprintf("%s Product %d", brand.Name, i+1)
			if i < len(variants) {
				name = fmt.Sprintf("%s %s", brand.Name, variants[i])
			}
			price := decimal.NewFromInt(int64(uniformInt(rng, band.lo, band.hi)))
			brandID := brand.ID
			products = append(products, domain.Product{
				Name:     name,
				BrandID:  &brandID,
				Category: brand.Category,
				Price:    &price,
			})
		}
	}
	return products
}

var (
	customerFirstNames = []string{"Jose", "Maria", "Juan", "Ana", "Pedro", "Carmen", "Luis", "Rosa", "Carlos", "Elena",
		"Miguel", "Sofia", "Antonio", "Luz", "Roberto", "Isabel", "Fernando", "Cristina", "Manuel", "Dolores"}
	customerLastNames = []string{"Santos", "Reyes", "Cruz", "Bautista", "Ocampo", "Garcia", "Mendoza", "Torres",
		"Castillo", "Morales", "Ramos", "Gutierrez", "Gonzales", "Flores", "Villanueva", "Rivera"}
	incomeRanges = []string{"0-15000", "15000-30000", "30000-50000", "50000-75000", "75000-100000", "100000+"}
)

// fallbackCustomers builds n customers. A single capture draw decides which demographic
// fields were heard: age above 0.3, gender above 0.5, income above 0.8.
func fallbackCustomers(rng Rand, n int, stores []domain.Store) []domain.Customer {
	customers := make([]domain.Customer, 0, n)
	for range n {
		c := domain.Customer{
			Name: fmt.Sprintf("%s %s", pick(rng, customerFirstNames), pick(rng, customerLastNames)),
		}
		if len(stores) > 0 {
			c.Region = pick(rng, stores).Region
		}
		captured := rng.Float64()
		if captured > 0.3 {
			age := uniformInt(rng, 18, 77)
			c.Age = &age
		}
		if captured > 0.5 {
			gender := pick(rng, customerGenders)
			c.Gender = &gender
		}
		if captured > 0.8 {
			income := pick(rng, incomeRanges)
			c.IncomeRange = &income
		}
		customers = append(customers, c)
	}
	return customers
}
