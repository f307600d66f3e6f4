package quote

import (
	"context"
	"strings"

	"cotizador_backend/internal/catalog/repository"
	"cotizador_backend/platform/logger"
)

// Searcher is the catalog lookup the resolver depends on.
type Searcher interface {
	Search(ctx context.Context, query, category string) []repository.Product
}

// RequestedItem is a (code, quantity) pair proposed by the model.
type RequestedItem struct {
	Code     string
	Quantity int
}

// Resolver maps model-proposed item codes to concrete catalog products.
type Resolver struct {
	search Searcher
	log    *logger.Logger
}

// NewResolver creates a resolver over the given catalog searcher.
func NewResolver(search Searcher, log *logger.Logger) *Resolver {
	return &Resolver{search: search, log: log}
}

// ResolveItems resolves each requested entry through a catalog search on its
// code. Preference order: exact code, case-insensitive code, case-insensitive
// name equality, then best-effort first search hit. Entries with no search
// results at all are dropped. Output preserves input order and carries
// quantities through unmodified.
func (r *Resolver) ResolveItems(ctx context.Context, requested []RequestedItem) []CartItem {
	items := make([]CartItem, 0, len(requested))
	for _, req := range requested {
		results := r.search.Search(ctx, req.Code, "")
		if len(results) == 0 {
			r.log.Warn("quote item not found in catalog", "code", req.Code)
			continue
		}

		product, exact := pickMatch(results, req.Code)
		if !exact {
			// Best-effort fallback; flag it rather than mask it.
			r.log.Warn("quote item resolved by best-effort fallback",
				"requested", req.Code,
				"resolved", product.Code,
			)
		}
		items = append(items, NewCartItem(product, req.Quantity))
	}
	return items
}

func pickMatch(results []repository.Product, code string) (repository.Product, bool) {
	for _, p := range results {
		if p.Code == code {
			return p, true
		}
	}
	for _, p := range results {
		if strings.EqualFold(p.Code, code) {
			return p, true
		}
	}
	for _, p := range results {
		if strings.EqualFold(p.Name, code) {
			return p, true
		}
	}
	return results[0], false
}
