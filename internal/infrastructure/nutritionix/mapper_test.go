package nutritionix

import (
	"encoding/json"
	"testing"

	"github.com/macrolens/productscan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFood(t *testing.T, raw string) *Food {
	t.Helper()
	var food Food
	require.NoError(t, json.Unmarshal([]byte(raw), &food))
	return &food
}

func TestExtractNutrients_OnlyPresentFields(t *testing.T) {
	food := decodeFood(t, `{"food_name":"Protein Bar","nf_calories":120,"nf_protein":5}`)

	got := ExtractNutrients(food)

	assert.Equal(t, domain.Nutrients{"energy-kcal": 120, "proteins": 5}, got)
}

func TestExtractNutrients_FullTable(t *testing.T) {
	food := decodeFood(t, `{
		"nf_calories": 250,
		"nf_total_fat": 9,
		"nf_saturated_fat": 3.5,
		"nf_cholesterol": 10,
		"nf_sodium": 140,
		"nf_total_carbohydrate": 35,
		"nf_dietary_fiber": 2,
		"nf_sugars": 18,
		"nf_protein": 6,
		"nf_potassium": 99
	}`)

	got := ExtractNutrients(food)

	assert.Equal(t, domain.Nutrients{
		"energy-kcal":   250,
		"fat":           9,
		"saturated_fat": 3.5,
		"cholesterol":   10,
		"sodium":        140,
		"carbohydrates": 35,
		"fiber":         2,
		"sugars":        18,
		"proteins":      6,
	}, got)
}

func TestExtractNutrients_NullAndZeroFieldsAreSkipped(t *testing.T) {
	food := decodeFood(t, `{"nf_calories":250,"nf_sugars":null,"nf_cholesterol":0}`)

	got := ExtractNutrients(food)

	assert.Equal(t, domain.Nutrients{"energy-kcal": 250}, got)
}

func TestMapToProduct(t *testing.T) {
	food := decodeFood(t, `{"food_name":"Mystery Bar","nf_calories":250}`)

	got := MapToProduct(food)

	assert.Equal(t, &domain.Product{
		Name:            "Mystery Bar",
		NutriScoreGrade: domain.NotAvailable,
		NovaGroup:       domain.NotAvailable,
		Nutrients:       domain.Nutrients{"energy-kcal": 250},
		Source:          ProviderName,
	}, got)
}

func TestMapToProduct_MissingName(t *testing.T) {
	got := MapToProduct(&Food{})

	assert.Equal(t, domain.NotAvailable, got.Name)
	assert.Empty(t, got.Nutrients)
}
