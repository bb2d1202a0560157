package usda

// Food represents a food item from the USDA FoodData Central search API
type Food struct {
	FdcID       int        `json:"fdcId"`
	Description string     `json:"description"`
	DataType    string     `json:"dataType"`
	GTINUPC     string     `json:"gtinUpc,omitempty"`
	BrandOwner  string     `json:"brandOwner,omitempty"`
	Nutrients   []Nutrient `json:"foodNutrients"`
}

// Nutrient represents a single nutrient entry from USDA data
type Nutrient struct {
	NutrientID   int     `json:"nutrientId"`
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName"`
	Value        float64 `json:"value"`
}

// SearchResponse represents the response from the USDA search API
type SearchResponse struct {
	Foods       []Food `json:"foods"`
	TotalHits   int    `json:"totalHits"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
}
