package repository

import "context"

// Product is an enabled, priced entry from the price list sheet. Disabled
// rows and rows without a strictly positive price never become Products.
type Product struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	PublicName  string  `json:"publicName,omitempty"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	SubCategory string  `json:"subCategory,omitempty"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Keywords    string  `json:"keywords,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// Repository provides access to the product catalog.
type Repository interface {
	// Catalog returns the cached catalog, fetching it on first use. A fetch
	// failure yields an empty catalog, never an error; the next call retries.
	Catalog(ctx context.Context) []Product
	// Refresh drops the cache so the next Catalog call re-fetches the source.
	Refresh()
}
