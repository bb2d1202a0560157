package nutritionix

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/macrolens/productscan/internal/domain"
	"github.com/macrolens/productscan/internal/infrastructure/apiclient"
)

// ProviderName identifies this provider in lookup chains
const ProviderName = "nutritionix"

// Client handles communication with the Nutritionix track API.
// Only the UPC lookup is integrated; Nutritionix is never used for name search.
type Client struct {
	api     *apiclient.Client
	appID   string
	apiKey  string
	baseURL string
}

// NewClient creates a new Nutritionix client
func NewClient(appID, apiKey, baseURL string, api *apiclient.Client) *Client {
	return &Client{
		api:     api,
		appID:   appID,
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// Name implements domain.BarcodeProvider
func (c *Client) Name() string { return ProviderName }

// SearchItem looks up foods by UPC
func (c *Client) SearchItem(ctx context.Context, upc string) (*SearchItemResponse, error) {
	params := url.Values{}
	params.Add("upc", upc)
	reqURL := fmt.Sprintf("%s/v2/search/item?%s", c.baseURL, params.Encode())

	header := http.Header{}
	header.Set("x-app-id", c.appID)
	header.Set("x-app-key", c.apiKey)

	var resp SearchItemResponse
	if err := c.api.GetJSON(ctx, reqURL, header, &resp); err != nil {
		return nil, err
	}

	if len(resp.Foods) == 0 {
		log.Printf("[Nutritionix] No foods found for upc: %s", upc)
		return nil, domain.ErrProductNotFound
	}

	return &resp, nil
}

// LookupBarcode returns the first food matching the UPC
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	resp, err := c.SearchItem(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return MapToProduct(&resp.Foods[0]), nil
}
