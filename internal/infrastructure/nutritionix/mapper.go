package nutritionix

import "github.com/macrolens/productscan/internal/domain"

// MapToProduct converts a Nutritionix food to the normalized product
func MapToProduct(food *Food) *domain.Product {
	return &domain.Product{
		Name:            domain.OrNotAvailable(food.FoodName),
		NutriScoreGrade: domain.NotAvailable,
		NovaGroup:       domain.NotAvailable,
		Nutrients:       ExtractNutrients(food),
		Source:          ProviderName,
	}
}

// ExtractNutrients remaps the fixed nf_* fields to the common nutrient keys.
// Fields absent from the payload are left out rather than defaulted.
func ExtractNutrients(food *Food) domain.Nutrients {
	fields := []struct {
		key   string
		value *float64
	}{
		{"energy-kcal", food.Calories},
		{"fat", food.TotalFat},
		{"saturated_fat", food.SaturatedFat},
		{"cholesterol", food.Cholesterol},
		{"sodium", food.Sodium},
		{"carbohydrates", food.TotalCarbohydrate},
		{"fiber", food.DietaryFiber},
		{"sugars", food.Sugars},
		{"proteins", food.Protein},
	}

	nutrients := make(domain.Nutrients)
	for _, f := range fields {
		if f.value != nil {
			nutrients.Set(f.key, *f.value)
		}
	}
	return nutrients
}
