package openfoodfacts

import "encoding/json"

// statusFound is the status value Open Food Facts returns for a known product
const statusFound = 1

// ProductResponse is the body of GET /api/v2/product/{barcode}
type ProductResponse struct {
	Code          string   `json:"code"`
	Status        int      `json:"status"`
	StatusVerbose string   `json:"status_verbose"`
	Product       *Product `json:"product"`
}

// Product holds the requested product fields.
// nova_group arrives as a number for most products and as a string for some.
type Product struct {
	ProductName     string                 `json:"product_name"`
	NutritionGrades string                 `json:"nutrition_grades"`
	NovaGroup       json.RawMessage        `json:"nova_group"`
	Nutriments      map[string]interface{} `json:"nutriments"`
}
