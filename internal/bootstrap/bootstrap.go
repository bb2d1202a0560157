// Package bootstrap builds the lookup service from configuration.
package bootstrap

import (
	"fmt"
	"log"
	"time"

	"github.com/macrolens/productscan/config"
	"github.com/macrolens/productscan/internal/domain"
	"github.com/macrolens/productscan/internal/infrastructure/apiclient"
	"github.com/macrolens/productscan/internal/infrastructure/cache"
	"github.com/macrolens/productscan/internal/infrastructure/nutritionix"
	"github.com/macrolens/productscan/internal/infrastructure/openfoodfacts"
	"github.com/macrolens/productscan/internal/infrastructure/usda"
	"github.com/macrolens/productscan/internal/usecase"
)

// Providers holds every configured provider client by name
type Providers struct {
	barcode map[string]domain.BarcodeProvider
	name    map[string]domain.NameProvider
}

// NewProviders creates a client for each provider named in either chain
func NewProviders(cfg *config.Config) *Providers {
	debug := cfg.Server.Environment == "development"
	newAPI := func(tag string, perHour int) *apiclient.Client {
		api := apiclient.New(apiclient.Config{
			Name:            tag,
			Timeout:         cfg.HTTP.Timeout,
			RequestsPerHour: perHour,
			MaxAttempts:     cfg.HTTP.MaxAttempts,
			UserAgent:       cfg.HTTP.UserAgent,
		})
		api.SetDebug(debug)
		return api
	}

	p := &Providers{
		barcode: make(map[string]domain.BarcodeProvider),
		name:    make(map[string]domain.NameProvider),
	}

	if cfg.Uses(config.ProviderOpenFoodFacts) {
		off := openfoodfacts.NewClient(cfg.OpenFoodFacts.BaseURL,
			newAPI("OFF", cfg.RateLimit.OpenFoodFacts))
		p.barcode[off.Name()] = off
	}
	if cfg.Uses(config.ProviderUSDA) {
		fdc := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL, cfg.USDA.PageSize,
			newAPI("USDA", cfg.RateLimit.USDA))
		p.barcode[fdc.Name()] = fdc
		p.name[fdc.Name()] = fdc
	}
	if cfg.Uses(config.ProviderNutritionix) {
		nix := nutritionix.NewClient(cfg.Nutritionix.AppID, cfg.Nutritionix.APIKey, cfg.Nutritionix.BaseURL,
			newAPI("Nutritionix", cfg.RateLimit.Nutritionix))
		p.barcode[nix.Name()] = nix
	}

	return p
}

// BarcodeChain resolves provider names to barcode providers, keeping order
func (p *Providers) BarcodeChain(names []string) ([]domain.BarcodeProvider, error) {
	chain := make([]domain.BarcodeProvider, 0, len(names))
	for _, n := range names {
		provider, ok := p.barcode[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q in barcode chain", domain.ErrUnknownProvider, n)
		}
		chain = append(chain, provider)
	}
	return chain, nil
}

// NameChain resolves provider names to name-search providers, keeping order
func (p *Providers) NameChain(names []string) ([]domain.NameProvider, error) {
	chain := make([]domain.NameProvider, 0, len(names))
	for _, n := range names {
		provider, ok := p.name[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q in name chain", domain.ErrUnknownProvider, n)
		}
		chain = append(chain, provider)
	}
	return chain, nil
}

// NewCache creates the configured product cache; nil when caching is disabled
func NewCache(cfg config.CacheConfig) (domain.ProductCache, error) {
	switch cfg.Type {
	case "none":
		return nil, nil
	case "lru":
		return cache.NewLRUCache(cfg.Size, cfg.TTL)
	case "memory", "":
		return cache.NewMemoryCache(10 * time.Minute), nil
	default:
		return nil, fmt.Errorf("unsupported cache type %q", cfg.Type)
	}
}

// NewLookupService wires the cache and provider chains into a lookup service
func NewLookupService(cfg *config.Config) (*usecase.LookupService, error) {
	productCache, err := NewCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	providers := NewProviders(cfg)
	barcodeChain, err := providers.BarcodeChain(cfg.Lookup.BarcodeProviders)
	if err != nil {
		return nil, err
	}
	nameChain, err := providers.NameChain(cfg.Lookup.NameProviders)
	if err != nil {
		return nil, err
	}

	svc := usecase.NewLookupService(productCache, barcodeChain, nameChain, usecase.LookupServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	})

	log.Printf("Barcode chain: %v", svc.Chain(domain.QueryKindBarcode))
	log.Printf("Name chain: %v", svc.Chain(domain.QueryKindName))
	log.Printf("Cache: %s (ttl %s)", cfg.Cache.Type, cfg.Cache.TTL)

	return svc, nil
}
