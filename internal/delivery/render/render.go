// Package render turns a looked-up product into the text and color
// indicators shown to the user.
package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/macrolens/productscan/internal/domain"
)

// NotFoundText is shown when a lookup yields nothing
const NotFoundText = "Product not found."

// Calorie thresholds (kcal) for the calorie indicator
const (
	mediumCalories = 100
	highCalories   = 300
)

// CalorieLevel buckets a calorie count for the indicator circle
type CalorieLevel string

const (
	CalorieLevelLow    CalorieLevel = "low"
	CalorieLevelMedium CalorieLevel = "medium"
	CalorieLevelHigh   CalorieLevel = "high"
)

// RGB is a display color
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	green       = RGB{0, 255, 0}
	orange      = RGB{255, 165, 0}
	red         = RGB{255, 0, 0}
	black       = RGB{0, 0, 0}
	greenYellow = RGB{173, 255, 47}
	yellow      = RGB{255, 255, 0}
	darkOrange  = RGB{255, 140, 0}
)

var calorieColors = map[CalorieLevel]RGB{
	CalorieLevelLow:    green,
	CalorieLevelMedium: orange,
	CalorieLevelHigh:   red,
}

var nutriScoreColors = map[string]RGB{
	"a": green,
	"b": greenYellow,
	"c": yellow,
	"d": darkOrange,
	"e": red,
}

// energyKeys are left out of the nutrient listing; calories are shown on their own
var energyKeys = map[string]bool{
	domain.EnergyKcalKey: true,
	"energy":             true,
	"energy_unit":        true,
	"energy_value":       true,
}

// Report is everything a front end needs to display one lookup result
type Report struct {
	Found           bool         `json:"found"`
	Summary         string       `json:"summary"`
	Calories        float64      `json:"calories"`
	CaloriesText    string       `json:"caloriesText"`
	CalorieLevel    CalorieLevel `json:"calorieLevel,omitempty"`
	CalorieColor    string       `json:"calorieColor,omitempty"`
	NutriScore      string       `json:"nutriScore,omitempty"`
	NutriScoreColor string       `json:"nutriScoreColor,omitempty"`
	NutrientsText   string       `json:"nutrientsText"`
}

// Build renders a product. A nil product yields the not-found report with
// every other field cleared.
func Build(p *domain.Product) Report {
	if p == nil {
		return Report{Summary: NotFoundText}
	}

	kcal := Calories(p.Nutrients)
	level := ClassifyCalories(kcal)

	return Report{
		Found: true,
		Summary: fmt.Sprintf("Product Name: %s\nNutri-Score: %s\nProcessed Food Level: %s",
			p.Name, p.NutriScoreGrade, p.NovaGroup),
		Calories:        kcal,
		CaloriesText:    "Calories: " + formatNumber(kcal),
		CalorieLevel:    level,
		CalorieColor:    calorieColors[level].Hex(),
		NutriScore:      p.NutriScoreGrade,
		NutriScoreColor: NutriScoreColor(p.NutriScoreGrade).Hex(),
		NutrientsText:   FormatNutrients(p.Nutrients),
	}
}

// Text joins the report's non-empty sections, one per paragraph
func (r Report) Text() string {
	parts := []string{r.Summary}
	if r.CaloriesText != "" {
		parts = append(parts, r.CaloriesText)
	}
	if r.NutrientsText != "" {
		parts = append(parts, strings.TrimRight(r.NutrientsText, "\n"))
	}
	return strings.Join(parts, "\n") + "\n"
}

// Calories returns the energy-kcal value, 0 when absent
func Calories(n domain.Nutrients) float64 {
	return n.Calories()
}

// ClassifyCalories buckets kcal: <100 low, <300 medium, otherwise high
func ClassifyCalories(kcal float64) CalorieLevel {
	switch {
	case kcal < mediumCalories:
		return CalorieLevelLow
	case kcal < highCalories:
		return CalorieLevelMedium
	default:
		return CalorieLevelHigh
	}
}

// NutriScoreColor maps a grade (any case) to its color; unknown grades are black
func NutriScoreColor(grade string) RGB {
	if c, ok := nutriScoreColors[strings.ToLower(grade)]; ok {
		return c
	}
	return black
}

// FormatNutrients lists nutrients grouped by the key prefix before the first
// underscore. Each group shows only the value stored at the bare prefix key,
// so "fat" hides "fat_saturated", and a group with no bare key prints N/A.
func FormatNutrients(n domain.Nutrients) string {
	groups := make(map[string]bool)
	for key, value := range n {
		if energyKeys[key] || value == 0 {
			continue
		}
		base, _, _ := strings.Cut(key, "_")
		groups[base] = true
	}

	bases := make([]string, 0, len(groups))
	for base := range groups {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	var b strings.Builder
	b.WriteString("Nutrients:\n")
	for _, base := range bases {
		value := domain.NotAvailable
		if v, ok := n[base]; ok && v != 0 && !energyKeys[base] {
			value = formatNumber(v)
		}
		fmt.Fprintf(&b, "%s: %s\n", capitalize(base), value)
	}
	return b.String()
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
