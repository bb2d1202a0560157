package usda

import (
	"strings"

	"github.com/macrolens/productscan/internal/domain"
)

// MapToProduct converts a USDA food to the normalized product.
// FDC carries no Nutri-Score or NOVA data.
func MapToProduct(food *Food) *domain.Product {
	return &domain.Product{
		Name:            domain.OrNotAvailable(food.Description),
		NutriScoreGrade: domain.NotAvailable,
		NovaGroup:       domain.NotAvailable,
		Nutrients:       ExtractNutrients(food.Nutrients),
		Source:          ProviderName,
	}
}

// ExtractNutrients flattens the per-nutrient list into a keyed map.
// "Total lipid (fat)" becomes "total_lipid_(fat)"; zero values are skipped.
func ExtractNutrients(list []Nutrient) domain.Nutrients {
	nutrients := make(domain.Nutrients, len(list))
	for _, n := range list {
		nutrients.Set(NutrientKey(n.NutrientName), n.Value)
	}
	return nutrients
}

// NutrientKey lowercases a nutrient name and replaces spaces with underscores
func NutrientKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
