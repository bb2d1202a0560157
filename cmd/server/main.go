package main

import (
	"fmt"
	"log"
	"os"

	"github.com/macrolens/productscan/config"
	"github.com/macrolens/productscan/internal/bootstrap"
	httpDelivery "github.com/macrolens/productscan/internal/delivery/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting productscan v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	if cfg.Uses(config.ProviderUSDA) {
		log.Printf("USDA API configured: %s (key: %s)", cfg.USDA.BaseURL, maskKey(cfg.USDA.APIKey))
	}
	if cfg.Uses(config.ProviderNutritionix) {
		log.Printf("Nutritionix API configured: %s (app: %s)", cfg.Nutritionix.BaseURL, cfg.Nutritionix.AppID)
	}

	lookupService, err := bootstrap.NewLookupService(cfg)
	if err != nil {
		log.Fatalf("Failed to build lookup service: %v", err)
	}

	handler := httpDelivery.NewHandler(lookupService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// maskKey keeps only the first few characters of a credential for logging
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "..."
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
