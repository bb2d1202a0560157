package openfoodfacts

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/macrolens/productscan/internal/domain"
	"github.com/macrolens/productscan/internal/infrastructure/apiclient"
)

// ProviderName identifies this provider in lookup chains
const ProviderName = "openfoodfacts"

// requestedFields limits the product payload to what the mapper reads
const requestedFields = "product_name,nutriscore_data,nutriments,nutrition_grades,nova_group"

// Client handles communication with the Open Food Facts product API
type Client struct {
	api     *apiclient.Client
	baseURL string
}

// NewClient creates a new Open Food Facts client
func NewClient(baseURL string, api *apiclient.Client) *Client {
	return &Client{api: api, baseURL: baseURL}
}

// Name implements domain.BarcodeProvider
func (c *Client) Name() string { return ProviderName }

// GetProduct fetches the raw product record for a barcode
func (c *Client) GetProduct(ctx context.Context, barcode string) (*ProductResponse, error) {
	params := url.Values{}
	params.Add("fields", requestedFields)
	reqURL := fmt.Sprintf("%s/api/v2/product/%s?%s", c.baseURL, url.PathEscape(barcode), params.Encode())

	var resp ProductResponse
	if err := c.api.GetJSON(ctx, reqURL, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Status != statusFound || resp.Product == nil {
		log.Printf("[OFF] Barcode %s not found (status %d)", barcode, resp.Status)
		return nil, domain.ErrProductNotFound
	}

	return &resp, nil
}

// LookupBarcode returns the normalized product for a barcode
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	resp, err := c.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}
	log.Printf("[OFF] Found %q for barcode %s", resp.Product.ProductName, barcode)
	return MapToProduct(resp.Product), nil
}
