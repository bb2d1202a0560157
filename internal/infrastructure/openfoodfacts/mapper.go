package openfoodfacts

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/macrolens/productscan/internal/domain"
)

// MapToProduct converts an Open Food Facts product to the normalized product
func MapToProduct(p *Product) *domain.Product {
	return &domain.Product{
		Name:            domain.OrNotAvailable(p.ProductName),
		NutriScoreGrade: domain.NormalizeGrade(p.NutritionGrades),
		NovaGroup:       novaGroup(p.NovaGroup),
		Nutrients:       ExtractNutrients(p.Nutriments),
		Source:          ProviderName,
	}
}

// ExtractNutrients keeps the nutriments keys as-is and drops entries that are
// not numeric (units, labels) or are zero.
func ExtractNutrients(nutriments map[string]interface{}) domain.Nutrients {
	nutrients := make(domain.Nutrients, len(nutriments))
	for key, raw := range nutriments {
		if v, ok := toFloat(raw); ok {
			nutrients.Set(key, v)
		}
	}
	return nutrients
}

func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// novaGroup renders nova_group whether it was sent as a number or a string
func novaGroup(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return domain.NotAvailable
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return domain.OrNotAvailable(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return domain.NotAvailable
}
