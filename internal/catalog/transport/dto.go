// Package transport defines the catalog module's request/response DTOs.
package transport

import "cotizador_backend/internal/catalog/repository"

// SearchRequest is the query contract for catalog search.
type SearchRequest struct {
	Query    string `form:"query"`
	Category string `form:"category"`
}

// ProductResponse is a catalog product as exposed over the API.
type ProductResponse struct {
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

// ProductListResponse wraps a product collection.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// ToProductResponse maps a catalog product to its API shape.
func ToProductResponse(p repository.Product) ProductResponse {
	return ProductResponse{
		Code:        p.Code,
		Name:        p.Name,
		PublicName:  p.PublicName,
		Brand:       p.Brand,
		Category:    p.Category,
		SubCategory: p.SubCategory,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Keywords:    p.Keywords,
		Price:       p.Price,
		Stock:       p.Stock,
	}
}

// ToProductListResponse maps a product slice to its API shape.
func ToProductListResponse(products []repository.Product) ProductListResponse {
	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, ToProductResponse(p))
	}
	return ProductListResponse{Items: items, Total: len(items)}
}
