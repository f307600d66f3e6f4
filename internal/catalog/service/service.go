// Package service implements catalog search over the in-memory catalog.
package service

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"cotizador_backend/internal/catalog/repository"
	"cotizador_backend/platform/logger"
)

const (
	// maxResults bounds every search reply.
	maxResults = 15
	// maxFallbackResults bounds the partial-match fallback so a vague query
	// does not flood the model with noise.
	maxFallbackResults = 5
	// maxCategoryOnlyResults bounds category browsing when the query carried
	// no usable tokens.
	maxCategoryOnlyResults = 10
)

// stopWords are Spanish filler words ignored during tokenization.
var stopWords = map[string]struct{}{
	"de": {}, "con": {}, "para": {}, "el": {}, "la": {}, "los": {},
	"las": {}, "un": {}, "una": {}, "y": {}, "x": {}, "en": {},
}

// Service resolves free-text queries against the catalog.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListProducts returns the whole enabled catalog.
func (s *Service) ListProducts(ctx context.Context) []repository.Product {
	return s.repo.Catalog(ctx)
}

// Refresh drops the catalog cache.
func (s *Service) Refresh() {
	s.repo.Refresh()
	s.log.Info("catalog cache dropped")
}

// Search resolves a query, optionally narrowed by category, to at most 15
// ranked products. It never fails: a catalog fetch problem surfaces as an
// empty candidate set.
//
// Matching is tiered: an exact code match wins outright; otherwise all query
// tokens must appear in the code/internal name (tier A), the public name
// (tier B) or the keywords (tier C), in that priority order. Only when the
// strict tiers are empty and the query had several tokens does a
// partial-match scoring pass run.
func (s *Service) Search(ctx context.Context, query, category string) []repository.Product {
	cleanQuery := strings.ToLower(strings.TrimSpace(query))
	cleanCategory := strings.ToLower(strings.TrimSpace(category))

	if cleanQuery == "" && cleanCategory == "" {
		return []repository.Product{}
	}

	candidates := s.repo.Catalog(ctx)
	if cleanCategory != "" {
		filtered := make([]repository.Product, 0, len(candidates))
		for _, p := range candidates {
			if strings.Contains(strings.ToLower(p.Category), cleanCategory) ||
				strings.Contains(strings.ToLower(p.SubCategory), cleanCategory) {
				filtered = append(filtered, p)
			}
		}
		candidates = filtered
	}

	// Exact code lookup short-circuits everything else.
	for _, p := range candidates {
		if strings.ToLower(p.Code) == cleanQuery {
			return []repository.Product{p}
		}
	}

	tokens := tokenize(cleanQuery)
	if len(tokens) == 0 {
		// The whole query was filler ("de la"). With a category we can still
		// offer a browse list; without one there is nothing to match on.
		if cleanCategory != "" {
			return limitTo(candidates, maxCategoryOnlyResults)
		}
		return []repository.Product{}
	}

	results := strictTiers(candidates, tokens)
	if len(results) == 0 && len(tokens) > 1 {
		results = scoredFallback(candidates, tokens)
	}

	return limitTo(results, maxResults)
}

// tokenize splits the lowered query on whitespace and drops stop words and
// single-character tokens.
func tokenize(query string) []string {
	fields := strings.Fields(query)
	tokens := make([]string, 0, len(fields))
	for _, t := range fields {
		if utf8.RuneCountInString(t) <= 1 {
			continue
		}
		if _, stop := stopWords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// containsAll reports whether every token is a substring of text.
func containsAll(text string, tokens []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, t := range tokens {
		if !strings.Contains(lower, t) {
			return false
		}
	}
	return true
}

// strictTiers runs the AND-semantics priority match. Each candidate lands in
// at most one tier; tiers concatenate in priority order, each preserving the
// catalog's own ordering.
func strictTiers(candidates []repository.Product, tokens []string) []repository.Product {
	var tierCode, tierPublic, tierKeywords []repository.Product
	for _, p := range candidates {
		switch {
		case containsAll(p.Code, tokens) || containsAll(p.Name, tokens):
			tierCode = append(tierCode, p)
		case containsAll(p.PublicName, tokens):
			tierPublic = append(tierPublic, p)
		case containsAll(p.Keywords, tokens):
			tierKeywords = append(tierKeywords, p)
		}
	}

	results := make([]repository.Product, 0, len(tierCode)+len(tierPublic)+len(tierKeywords))
	results = append(results, tierCode...)
	results = append(results, tierPublic...)
	results = append(results, tierKeywords...)
	return results
}

// scoredFallback ranks candidates by how many tokens appear anywhere in the
// searchable text, descending. Ties keep catalog order.
func scoredFallback(candidates []repository.Product, tokens []string) []repository.Product {
	type scored struct {
		product repository.Product
		score   int
	}

	matches := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		text := strings.ToLower(p.Name + " " + p.PublicName + " " + p.Keywords + " " + p.Category)
		score := 0
		for _, t := range tokens {
			if strings.Contains(text, t) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{product: p, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	results := make([]repository.Product, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.product)
	}
	return limitTo(results, maxFallbackResults)
}

func limitTo(products []repository.Product, limit int) []repository.Product {
	if len(products) > limit {
		return products[:limit]
	}
	return products
}
