package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/macrolens/productscan/config"
	"github.com/macrolens/productscan/internal/domain"
)

// TestMain sets Gin to test mode once for all tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockLookup returns canned results and records queries
type mockLookup struct {
	products map[string]*domain.Product
	err      error
	queries  []string
}

func (m *mockLookup) Lookup(ctx context.Context, query string) (*domain.Product, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.products[query]; ok {
		return p.Clone(), nil
	}
	return nil, domain.ErrProductNotFound
}

func newMockLookup() *mockLookup {
	return &mockLookup{products: map[string]*domain.Product{
		"737628064502": {
			Name:            "Cheerios",
			NutriScoreGrade: "b",
			NovaGroup:       "4",
			Nutrients:       domain.Nutrients{"energy-kcal": 367, "fat": 6.7, "fat_saturated": 1.3, "proteins": 12},
			Source:          "openfoodfacts",
		},
	}}
}

// setupTestRouter creates a test router backed by the given lookup
func setupTestRouter(lookup ProductLookup) *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
	}
	return SetupRouter(cfg, NewHandler(lookup))
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(nil)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", response["status"])
	}
	if response["service"] != "productscan" {
		t.Errorf("service = %v, want productscan", response["service"])
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Errorf("%s header not set", RequestIDHeader)
	}
}

func TestLookupProductEndpoint(t *testing.T) {
	t.Run("returns product and display", func(t *testing.T) {
		lookup := newMockLookup()
		router := setupTestRouter(lookup)

		req, _ := http.NewRequest("POST", "/api/v1/products/lookup", strings.NewReader(`{"query":"737628064502"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var response LookupResponse
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Product == nil || response.Product.Name != "Cheerios" {
			t.Fatalf("product = %+v, want Cheerios", response.Product)
		}
		if response.Product.Nutrients.Calories() != 367 {
			t.Errorf("calories = %v, want 367", response.Product.Nutrients.Calories())
		}
		if !response.Display.Found {
			t.Errorf("display.found = false, want true")
		}
		if response.Display.CalorieColor != "#ff0000" {
			t.Errorf("display.calorieColor = %q, want #ff0000", response.Display.CalorieColor)
		}
		if response.Display.NutriScoreColor != "#adff2f" {
			t.Errorf("display.nutriScoreColor = %q, want #adff2f", response.Display.NutriScoreColor)
		}
		if len(lookup.queries) != 1 || lookup.queries[0] != "737628064502" {
			t.Errorf("queries = %v, want [737628064502]", lookup.queries)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		router := setupTestRouter(newMockLookup())

		req, _ := http.NewRequest("POST", "/api/v1/products/lookup", strings.NewReader(`{"query":"banana"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
		var response map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["error"] != "Product not found" {
			t.Errorf("error = %q, want %q", response["error"], "Product not found")
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		lookup := newMockLookup()
		router := setupTestRouter(lookup)

		req, _ := http.NewRequest("POST", "/api/v1/products/lookup", strings.NewReader(`{"query":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if len(lookup.queries) != 0 {
			t.Errorf("lookup called for invalid request: %v", lookup.queries)
		}
	})

	t.Run("rejects oversized query", func(t *testing.T) {
		router := setupTestRouter(newMockLookup())

		body := `{"query":"` + strings.Repeat("a", 129) + `"}`
		req, _ := http.NewRequest("POST", "/api/v1/products/lookup", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("maps unexpected errors to 500", func(t *testing.T) {
		router := setupTestRouter(&mockLookup{err: errors.New("boom")})

		req, _ := http.NewRequest("POST", "/api/v1/products/lookup", strings.NewReader(`{"query":"milk"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})

	t.Run("returns 501 without a lookup service", func(t *testing.T) {
		router := setupTestRouter(nil)

		req, _ := http.NewRequest("POST", "/api/v1/products/lookup", strings.NewReader(`{"query":"milk"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotImplemented {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotImplemented)
		}
	})

	t.Run("validates HTTP method", func(t *testing.T) {
		router := setupTestRouter(newMockLookup())

		for _, method := range []string{"GET", "PUT", "DELETE", "PATCH"} {
			req, _ := http.NewRequest(method, "/api/v1/products/lookup", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestProductReportEndpoint(t *testing.T) {
	t.Run("renders found product as text", func(t *testing.T) {
		router := setupTestRouter(newMockLookup())

		req, _ := http.NewRequest("GET", "/api/v1/products/report?q=737628064502", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("Content-Type = %q, want text/plain", ct)
		}

		want := "Product Name: Cheerios\n" +
			"Nutri-Score: b\n" +
			"Processed Food Level: 4\n" +
			"Calories: 367\n" +
			"Nutrients:\n" +
			"Fat: 6.7\n" +
			"Proteins: 12\n"
		if w.Body.String() != want {
			t.Errorf("body = %q, want %q", w.Body.String(), want)
		}
	})

	t.Run("renders not found text with 404", func(t *testing.T) {
		router := setupTestRouter(newMockLookup())

		req, _ := http.NewRequest("GET", "/api/v1/products/report?q=banana", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
		if w.Body.String() != "Product not found.\n" {
			t.Errorf("body = %q, want %q", w.Body.String(), "Product not found.\n")
		}
	})
}

func TestEndpointsShareQueryRules(t *testing.T) {
	post := func(router *gin.Engine, query string) int {
		body, _ := json.Marshal(domain.LookupRequest{Query: query})
		req, _ := http.NewRequest("POST", "/api/v1/products/lookup", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}
	get := func(router *gin.Engine, query string) int {
		req, _ := http.NewRequest("GET", "/api/v1/products/report?q="+url.QueryEscape(query), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("length is counted in characters", func(t *testing.T) {
		router := setupTestRouter(newMockLookup())
		atLimit := strings.Repeat("é", maxQueryLength)
		overLimit := atLimit + "é"

		if code := post(router, atLimit); code != http.StatusNotFound {
			t.Errorf("lookup at limit: Status = %d, want %d", code, http.StatusNotFound)
		}
		if code := get(router, atLimit); code != http.StatusNotFound {
			t.Errorf("report at limit: Status = %d, want %d", code, http.StatusNotFound)
		}
		if code := post(router, overLimit); code != http.StatusBadRequest {
			t.Errorf("lookup over limit: Status = %d, want %d", code, http.StatusBadRequest)
		}
		if code := get(router, overLimit); code != http.StatusBadRequest {
			t.Errorf("report over limit: Status = %d, want %d", code, http.StatusBadRequest)
		}
	})

	t.Run("query reaches the lookup unchanged from both endpoints", func(t *testing.T) {
		lookup := newMockLookup()
		router := setupTestRouter(lookup)

		post(router, " 737628064502")
		get(router, " 737628064502")

		if len(lookup.queries) != 2 || lookup.queries[0] != lookup.queries[1] {
			t.Errorf("queries = %q, want the same query from both endpoints", lookup.queries)
		}
	})
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(newMockLookup())

	req, _ := http.NewRequest("GET", "/api/v1/products/report?q=737628064502", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:5173")
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); got != RequestIDHeader {
		t.Errorf("Access-Control-Expose-Headers = %q, want %q", got, RequestIDHeader)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	router := setupTestRouter(nil)
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	req, _ := http.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
