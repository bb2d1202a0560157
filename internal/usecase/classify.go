package usecase

import "github.com/macrolens/productscan/internal/domain"

// ClassifyQuery routes a query: all ASCII digits is a barcode, anything
// else (including the empty string) is a food name.
func ClassifyQuery(query string) domain.QueryKind {
	if query == "" {
		return domain.QueryKindName
	}
	for i := 0; i < len(query); i++ {
		if query[i] < '0' || query[i] > '9' {
			return domain.QueryKindName
		}
	}
	return domain.QueryKindBarcode
}
