package usda

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/macrolens/productscan/internal/domain"
	"github.com/macrolens/productscan/internal/infrastructure/apiclient"
)

// ProviderName identifies this provider in lookup chains
const ProviderName = "usda"

// Client handles communication with the USDA FoodData Central API.
// FDC has no barcode endpoint, so barcode lookups go through free-text
// search with the digits as the query.
type Client struct {
	api      *apiclient.Client
	apiKey   string
	baseURL  string
	pageSize int
}

// NewClient creates a new USDA API client
func NewClient(apiKey, baseURL string, pageSize int, api *apiclient.Client) *Client {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Client{
		api:      api,
		apiKey:   apiKey,
		baseURL:  baseURL,
		pageSize: pageSize,
	}
}

// Name implements domain.BarcodeProvider and domain.NameProvider
func (c *Client) Name() string { return ProviderName }

// SearchFoods searches for foods in the USDA database
func (c *Client) SearchFoods(ctx context.Context, query string) (*SearchResponse, error) {
	log.Printf("[USDA] SearchFoods called with query: %q", query)

	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("pageSize", strconv.Itoa(c.pageSize))
	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	var searchResp SearchResponse
	if err := c.api.GetJSON(ctx, reqURL, nil, &searchResp); err != nil {
		return nil, err
	}

	if len(searchResp.Foods) == 0 {
		log.Printf("[USDA] No foods found for query: %q", query)
		return nil, domain.ErrProductNotFound
	}

	log.Printf("[USDA] Found %d foods for query: %q", len(searchResp.Foods), query)
	return &searchResp, nil
}

// SearchByName returns the first search hit for a food name
func (c *Client) SearchByName(ctx context.Context, name string) (*domain.Product, error) {
	return c.first(ctx, name)
}

// LookupBarcode searches with the barcode digits as free text and returns the first hit
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	return c.first(ctx, barcode)
}

func (c *Client) first(ctx context.Context, query string) (*domain.Product, error) {
	resp, err := c.SearchFoods(ctx, query)
	if err != nil {
		return nil, err
	}
	return MapToProduct(&resp.Foods[0]), nil
}
