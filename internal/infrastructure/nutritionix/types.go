package nutritionix

// SearchItemResponse is the body of GET /v2/search/item
type SearchItemResponse struct {
	Foods []Food `json:"foods"`
}

// Food is one Nutritionix item. Nutrient fields are pointers so a field
// missing from the payload can be told apart from an explicit value.
type Food struct {
	FoodName          string   `json:"food_name"`
	BrandName         string   `json:"brand_name,omitempty"`
	NixItemID         string   `json:"nix_item_id,omitempty"`
	Calories          *float64 `json:"nf_calories"`
	TotalFat          *float64 `json:"nf_total_fat"`
	SaturatedFat      *float64 `json:"nf_saturated_fat"`
	Cholesterol       *float64 `json:"nf_cholesterol"`
	Sodium            *float64 `json:"nf_sodium"`
	TotalCarbohydrate *float64 `json:"nf_total_carbohydrate"`
	DietaryFiber      *float64 `json:"nf_dietary_fiber"`
	Sugars            *float64 `json:"nf_sugars"`
	Protein           *float64 `json:"nf_protein"`
}
