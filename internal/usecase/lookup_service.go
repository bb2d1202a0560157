package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/macrolens/productscan/internal/domain"
)

// multipleSpacesRegex collapses whitespace runs in cache keys
var multipleSpacesRegex = regexp.MustCompile(`\s+`)

// LookupServiceConfig holds configuration for the lookup service
type LookupServiceConfig struct {
	CacheTTL time.Duration
}

// strategy is one step of a fallback chain
type strategy struct {
	name string
	try  func(ctx context.Context, query string) (*domain.Product, error)
}

// LookupService resolves a barcode or food name to a product by walking
// an ordered provider chain until one provider answers.
type LookupService struct {
	cache        domain.ProductCache
	barcodeChain []strategy
	nameChain    []strategy
	cacheTTL     time.Duration
}

// NewLookupService creates a lookup service. cache may be nil to disable caching.
func NewLookupService(
	cache domain.ProductCache,
	barcodeProviders []domain.BarcodeProvider,
	nameProviders []domain.NameProvider,
	config LookupServiceConfig,
) *LookupService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	s := &LookupService{
		cache:    cache,
		cacheTTL: cacheTTL,
	}
	for _, p := range barcodeProviders {
		s.barcodeChain = append(s.barcodeChain, strategy{name: p.Name(), try: p.LookupBarcode})
	}
	for _, p := range nameProviders {
		s.nameChain = append(s.nameChain, strategy{name: p.Name(), try: p.SearchByName})
	}
	return s
}

// Chain returns the provider names tried for a query kind, in order
func (s *LookupService) Chain(kind domain.QueryKind) []string {
	chain := s.chainFor(kind)
	names := make([]string, len(chain))
	for i, st := range chain {
		names[i] = st.name
	}
	return names
}

// Lookup returns the first product any provider in the chain yields.
// The only error it returns is domain.ErrProductNotFound.
// Surrounding whitespace is trimmed before the query is classified.
// Flow: classify -> check cache -> walk chain -> cache -> return
func (s *LookupService) Lookup(ctx context.Context, query string) (*domain.Product, error) {
	query = strings.TrimSpace(query)
	kind := ClassifyQuery(query)

	if query == "" {
		log.Printf("[Lookup] Empty query, nothing to search for")
		return nil, domain.ErrProductNotFound
	}

	cacheKey := generateCacheKey(kind, query)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		log.Printf("[Cache] Hit for %s (from %s)", cacheKey, cached.Source)
		return cached, nil
	}

	for _, st := range s.chainFor(kind) {
		if err := ctx.Err(); err != nil {
			log.Printf("[Lookup] Stopping %s chain for %q: %v", kind, query, err)
			break
		}

		product, err := st.try(ctx, query)
		if err != nil {
			logProviderMiss(st.name, query, err)
			continue
		}
		if product == nil {
			log.Printf("[Lookup] %s returned no product for %q", st.name, query)
			continue
		}
		if product.Source == "" {
			product.Source = st.name
		}

		log.Printf("[Lookup] %s resolved %s %q to %q", st.name, kind, query, product.Name)
		if err := s.setInCache(ctx, cacheKey, product); err != nil {
			log.Printf("[Cache] Failed to store %s: %v", cacheKey, err)
		}
		return product, nil
	}

	log.Printf("[Lookup] No provider found %s %q", kind, query)
	return nil, domain.ErrProductNotFound
}

func (s *LookupService) chainFor(kind domain.QueryKind) []strategy {
	if kind == domain.QueryKindBarcode {
		return s.barcodeChain
	}
	return s.nameChain
}

// logProviderMiss logs why a provider was skipped; a plain miss is not an error
func logProviderMiss(provider, query string, err error) {
	if errors.Is(err, domain.ErrProductNotFound) {
		log.Printf("[Lookup] %s has no match for %q", provider, query)
		return
	}
	log.Printf("[Lookup] %s failed for %q, falling through: %v", provider, query, err)
}

// generateCacheKey creates a normalized cache key.
// Format: "product:{kind}:{normalized_query}"; empty when the query normalizes to nothing.
func generateCacheKey(kind domain.QueryKind, query string) string {
	normalized := normalizeForCacheKey(query)
	if normalized == "" {
		return ""
	}
	return fmt.Sprintf("product:%s:%s", kind, normalized)
}

// normalizeForCacheKey lowercases and collapses whitespace. Punctuation and
// accents are kept since providers treat "1% milk" and "1 milk" differently.
func normalizeForCacheKey(s string) string {
	result := strings.ToLower(s)
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// getFromCache retrieves a product from cache
func (s *LookupService) getFromCache(ctx context.Context, key string) (*domain.Product, error) {
	if s.cache == nil || key == "" {
		return nil, domain.ErrCacheMiss
	}
	product, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Printf("[Cache] Get %s failed: %v", key, err)
		}
		return nil, err
	}
	return product, nil
}

// setInCache stores a product in cache
func (s *LookupService) setInCache(ctx context.Context, key string, product *domain.Product) error {
	if s.cache == nil || key == "" {
		return nil
	}
	stored := product.Clone()
	stored.CachedAt = time.Now()
	return s.cache.Set(ctx, key, stored, s.cacheTTL)
}
