package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"cotizador_backend/internal/catalog/pricing"
	"cotizador_backend/platform/logger"
)

// Sheet column positions (0-indexed). The sheet is column-positional; header
// names in row 0 are skipped, not trusted.
const (
	colCode        = 0
	colName        = 1
	colPublicName  = 2
	colCategory    = 3
	colSubCategory = 4
	colBrand       = 7
	colPrice       = 16
	colDescription = 17
	colImageURL    = 18
	colEnabled     = 19
	colKeywords    = 22
	colStock       = 25
)

const maxDescriptionLen = 200

// Default field values for incomplete rows, as published by the sheet owner.
const (
	defaultCode     = "S/C"
	defaultName     = "Sin Nombre"
	defaultBrand    = "Genérico"
	defaultCategory = "General"
)

// SheetRepository loads the catalog from a published CSV sheet and caches it
// for the process lifetime. The cache is only written after a successful
// fetch, so a transient failure is retried on the next access. Concurrent
// first accesses are collapsed into a single fetch.
type SheetRepository struct {
	url    string
	client *http.Client
	log    *logger.Logger

	mu     sync.RWMutex
	cache  []Product
	loaded bool
	group  singleflight.Group
}

// NewSheet creates a catalog repository backed by a CSV sheet URL.
func NewSheet(url string, client *http.Client, log *logger.Logger) *SheetRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &SheetRepository{
		url:    url,
		client: client,
		log:    log,
	}
}

// Catalog returns the cached catalog, fetching it on first use.
func (r *SheetRepository) Catalog(ctx context.Context) []Product {
	r.mu.RLock()
	if r.loaded {
		cached := r.cache
		r.mu.RUnlock()
		return cached
	}
	r.mu.RUnlock()

	result, _, _ := r.group.Do("catalog", func() (interface{}, error) {
		products, err := r.fetch(ctx)
		if err != nil {
			r.log.CatalogFetchError(r.url, err)
			return []Product{}, nil
		}

		r.mu.Lock()
		r.cache = products
		r.loaded = true
		r.mu.Unlock()

		r.log.Info("catalog loaded", "products", len(products))
		return products, nil
	})

	return result.([]Product)
}

// Refresh drops the cache so the next Catalog call re-fetches the sheet.
func (r *SheetRepository) Refresh() {
	r.mu.Lock()
	r.cache = nil
	r.loaded = false
	r.mu.Unlock()
}

func (r *SheetRepository) fetch(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet fetch returned status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sheet csv: %w", err)
	}

	products := make([]Product, 0, len(records))
	for i, record := range records {
		if i == 0 {
			// header row
			continue
		}
		if product, ok := parseRow(record); ok {
			products = append(products, product)
		}
	}
	return products, nil
}

// parseRow maps one sheet row to a Product. Rows that are not marked enabled
// or whose price does not resolve to a positive value are dropped.
func parseRow(cols []string) (Product, bool) {
	if !strings.EqualFold(column(cols, colEnabled), "SI") {
		return Product{}, false
	}

	price := pricing.ParsePrice(column(cols, colPrice))
	if price <= 0 {
		return Product{}, false
	}

	return Product{
		Code:        columnOr(cols, colCode, defaultCode),
		Name:        columnOr(cols, colName, defaultName),
		PublicName:  column(cols, colPublicName),
		Brand:       columnOr(cols, colBrand, defaultBrand),
		Category:    columnOr(cols, colCategory, defaultCategory),
		SubCategory: column(cols, colSubCategory),
		Description: truncateDescription(column(cols, colDescription)),
		ImageURL:    column(cols, colImageURL),
		Keywords:    column(cols, colKeywords),
		Price:       price,
		Stock:       parseStock(column(cols, colStock)),
	}, true
}

func column(cols []string, idx int) string {
	if idx >= len(cols) {
		return ""
	}
	return strings.TrimSpace(cols[idx])
}

func columnOr(cols []string, idx int, fallback string) string {
	if v := column(cols, idx); v != "" {
		return v
	}
	return fallback
}

// parseStock strips everything but digits and the sign before parsing.
// Negative stock is clamped to zero.
func parseStock(raw string) int {
	var sb strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '-' {
			sb.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(sb.String())
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// truncateDescription caps descriptions to keep model token usage down.
func truncateDescription(desc string) string {
	runes := []rune(desc)
	if len(runes) <= maxDescriptionLen {
		return desc
	}
	return string(runes[:maxDescriptionLen-3]) + "..."
}

// Compile-time check that SheetRepository implements Repository.
var _ Repository = (*SheetRepository)(nil)
