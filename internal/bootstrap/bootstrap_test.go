package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/macrolens/productscan/config"
	"github.com/macrolens/productscan/internal/domain"
	"github.com/macrolens/productscan/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProviders stands in for all three upstream APIs
type fakeProviders struct {
	off, fdc, nix *httptest.Server

	mu    sync.Mutex
	calls []string
}

func (f *fakeProviders) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newFakeProviders(t *testing.T, off, fdc, nix http.HandlerFunc) *fakeProviders {
	t.Helper()
	f := &fakeProviders{}
	wrap := func(name string, h http.HandlerFunc) *httptest.Server {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.calls = append(f.calls, name)
			f.mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			h(w, r)
		}))
		t.Cleanup(srv.Close)
		return srv
	}
	f.off = wrap("openfoodfacts", off)
	f.fdc = wrap("usda", fdc)
	f.nix = wrap("nutritionix", nix)
	return f
}

func (f *fakeProviders) config() *config.Config {
	return &config.Config{
		Server:        config.ServerConfig{Environment: "test"},
		HTTP:          config.HTTPConfig{Timeout: 5 * time.Second, MaxAttempts: 1, UserAgent: "productscan-test"},
		OpenFoodFacts: config.OpenFoodFactsConfig{BaseURL: f.off.URL},
		USDA:          config.USDAConfig{APIKey: "k", BaseURL: f.fdc.URL, PageSize: 5},
		Nutritionix:   config.NutritionixConfig{AppID: "a", APIKey: "k", BaseURL: f.nix.URL},
		Cache:         config.CacheConfig{Type: "none"},
		Lookup: config.LookupConfig{
			BarcodeProviders: []string{config.ProviderOpenFoodFacts, config.ProviderUSDA, config.ProviderNutritionix},
			NameProviders:    []string{config.ProviderUSDA},
		},
	}
}

func body(s string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(s)) }
}

func TestLookup_BarcodeFoundByOpenFoodFacts(t *testing.T) {
	f := newFakeProviders(t,
		body(`{"status":1,"product":{"product_name":"Cheerios","nutrition_grades":"b","nova_group":4,"nutriments":{"energy-kcal":367}}}`),
		body(`{"foods":[]}`),
		body(`{"foods":[]}`),
	)
	svc, err := NewLookupService(f.config())
	require.NoError(t, err)

	product, err := svc.Lookup(context.Background(), "737628064502")

	require.NoError(t, err)
	assert.Equal(t, "Cheerios", product.Name)
	assert.Equal(t, "b", product.NutriScoreGrade)
	assert.Equal(t, "4", product.NovaGroup)
	assert.Equal(t, []string{"openfoodfacts"}, f.called())
}

func TestLookup_BarcodeFallsThroughToNutritionix(t *testing.T) {
	f := newFakeProviders(t,
		body(`{"status":0,"status_verbose":"product not found"}`),
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "000000000000", r.URL.Query().Get("query"))
			w.Write([]byte(`{"foods":[]}`))
		},
		body(`{"foods":[{"food_name":"Mystery Bar","nf_calories":250}]}`),
	)
	svc, err := NewLookupService(f.config())
	require.NoError(t, err)

	product, err := svc.Lookup(context.Background(), "000000000000")

	require.NoError(t, err)
	assert.Equal(t, "Mystery Bar", product.Name)
	assert.Equal(t, domain.NotAvailable, product.NutriScoreGrade)
	assert.Equal(t, domain.NotAvailable, product.NovaGroup)
	assert.Equal(t, domain.Nutrients{"energy-kcal": 250}, product.Nutrients)
	assert.Equal(t, []string{"openfoodfacts", "usda", "nutritionix"}, f.called())
}

func TestLookup_NameNotFoundAnywhere(t *testing.T) {
	f := newFakeProviders(t,
		body(`{"status":1,"product":{"product_name":"wrong chain"}}`),
		body(`{"foods":[]}`),
		body(`{"foods":[{"food_name":"wrong chain"}]}`),
	)
	svc, err := NewLookupService(f.config())
	require.NoError(t, err)

	product, err := svc.Lookup(context.Background(), "banana")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, []string{"usda"}, f.called())
}

func TestLookup_UnreachableProvidersAreSkipped(t *testing.T) {
	f := newFakeProviders(t,
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		body(`not json`),
		body(`{"foods":[{"food_name":"Survivor","nf_protein":3}]}`),
	)
	svc, err := NewLookupService(f.config())
	require.NoError(t, err)

	product, err := svc.Lookup(context.Background(), "123456")

	require.NoError(t, err)
	assert.Equal(t, "Survivor", product.Name)
}

func TestNewCache(t *testing.T) {
	c, err := NewCache(config.CacheConfig{Type: "none"})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = NewCache(config.CacheConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryCache{}, c)
	c.(*cache.MemoryCache).Close()

	c, err = NewCache(config.CacheConfig{Type: "lru", Size: 8})
	require.NoError(t, err)
	assert.IsType(t, &cache.LRUCache{}, c)

	_, err = NewCache(config.CacheConfig{Type: "redis"})
	assert.Error(t, err)
}

func TestProviders_Chains(t *testing.T) {
	cfg := &config.Config{
		Lookup: config.LookupConfig{
			BarcodeProviders: []string{config.ProviderOpenFoodFacts},
			NameProviders:    []string{config.ProviderUSDA},
		},
	}
	p := NewProviders(cfg)

	chain, err := p.BarcodeChain([]string{config.ProviderOpenFoodFacts})
	require.NoError(t, err)
	assert.Len(t, chain, 1)

	_, err = p.BarcodeChain([]string{config.ProviderNutritionix})
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)

	_, err = p.NameChain([]string{config.ProviderOpenFoodFacts})
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}
