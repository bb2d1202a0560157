package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/macrolens/productscan/internal/delivery/render"
	"github.com/macrolens/productscan/internal/domain"
)

// maxQueryLength is the longest query accepted, in characters. It matches
// the binding tag on domain.LookupRequest.
const maxQueryLength = 128

// ProductLookup resolves a barcode or food name to a product
type ProductLookup interface {
	Lookup(ctx context.Context, query string) (*domain.Product, error)
}

// LookupResponse is the body returned for a successful lookup
type LookupResponse struct {
	Product *domain.Product `json:"product"`
	Display render.Report   `json:"display"`
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	lookup ProductLookup
}

// NewHandler creates a new HTTP handler; a nil lookup makes product endpoints return 501
func NewHandler(lookup ProductLookup) *Handler {
	return &Handler{lookup: lookup}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "productscan",
		"version": "1.0.0",
	})
}

// LookupProduct handles POST /api/v1/products/lookup
func (h *Handler) LookupProduct(c *gin.Context) {
	if h.lookup == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Product lookup not configured"})
		return
	}

	var req domain.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	product, err := h.lookup.Lookup(c.Request.Context(), req.Query)
	if err != nil {
		status, message := lookupError(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, LookupResponse{
		Product: product,
		Display: render.Build(product),
	})
}

// ProductReport handles GET /api/v1/products/report?q=
func (h *Handler) ProductReport(c *gin.Context) {
	if h.lookup == nil {
		c.String(http.StatusNotImplemented, "Product lookup not configured")
		return
	}

	query := c.Query("q")
	if utf8.RuneCountInString(query) > maxQueryLength {
		c.String(http.StatusBadRequest, "query too long")
		return
	}

	product, err := h.lookup.Lookup(c.Request.Context(), query)
	if err != nil {
		status, _ := lookupError(err)
		c.String(status, render.Build(nil).Text())
		return
	}

	c.String(http.StatusOK, render.Build(product).Text())
}

// lookupError maps a lookup failure to a status code and client message
func lookupError(err error) (int, string) {
	if errors.Is(err, domain.ErrProductNotFound) {
		return http.StatusNotFound, "Product not found"
	}
	log.Printf("[HTTP] lookup failed: %v", err)
	return http.StatusInternalServerError, "Lookup failed"
}
