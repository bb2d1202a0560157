package domain

import (
	"strings"
	"time"
)

// NotAvailable is the placeholder used for any field a provider cannot supply
const NotAvailable = "N/A"

// EnergyKcalKey is the nutrient key holding the calorie count
const EnergyKcalKey = "energy-kcal"

// Product is the normalized record produced by every provider
type Product struct {
	Name            string    `json:"name"`
	NutriScoreGrade string    `json:"nutriScoreGrade"`
	NovaGroup       string    `json:"novaGroup"`
	Nutrients       Nutrients `json:"nutrients"`
	Source          string    `json:"source"` // provider name, e.g. "openfoodfacts"
	CachedAt        time.Time `json:"cachedAt,omitempty"`
}

// Clone returns a deep copy so cached records never share a nutrient map
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Nutrients = p.Nutrients.Clone()
	return &cp
}

// Nutrients maps lowercase nutrient keys to their numeric values.
// Zero values are never stored; a sparse source omitting a nutrient and a
// source reporting 0 for it mean the same thing.
type Nutrients map[string]float64

// Set stores value under key unless value is zero
func (n Nutrients) Set(key string, value float64) {
	if value == 0 {
		return
	}
	n[key] = value
}

// Calories returns the energy-kcal value, or 0 when absent
func (n Nutrients) Calories() float64 {
	return n[EnergyKcalKey]
}

// Clone returns a copy of the map
func (n Nutrients) Clone() Nutrients {
	out := make(Nutrients, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}

// NormalizeGrade lowercases a Nutri-Score grade and maps anything outside a-e to N/A
func NormalizeGrade(grade string) string {
	g := strings.ToLower(strings.TrimSpace(grade))
	switch g {
	case "a", "b", "c", "d", "e":
		return g
	default:
		return NotAvailable
	}
}

// OrNotAvailable returns s, or N/A when s is blank
func OrNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

// QueryKind tells which provider chain a query is routed to
type QueryKind string

const (
	QueryKindBarcode QueryKind = "barcode"
	QueryKindName    QueryKind = "name"
)

// LookupRequest represents a product lookup request
type LookupRequest struct {
	Query string `json:"query" binding:"max=128"`
}
