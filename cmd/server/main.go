package main

import (
	"log"
	"os"

	"github.com/brunolopes/shiftcore/internal/explain"
	"github.com/brunolopes/shiftcore/internal/httpapi"
	"github.com/brunolopes/shiftcore/internal/resultcache"
	"github.com/brunolopes/shiftcore/internal/solver/driver"
)

func main() {
	logger := log.Default()

	dbPath := os.Getenv("SHIFTCORE_CACHE_DB")
	if dbPath == "" {
		dbPath = "./data/shiftcore.db"
	}
	if err := os.MkdirAll("./data", 0o755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	cache, err := resultcache.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open result cache: %v", err)
	}
	defer cache.Close()

	var explainer *explain.Explainer
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		explainer = explain.New(apiKey, os.Getenv("OPENAI_BASE_URL"), os.Getenv("OPENAI_MODEL"))
		log.Println("cause explanations enabled")
	} else {
		log.Println("OPENAI_API_KEY not set, cause explanations disabled")
	}

	drv := driver.New(logger)
	server := httpapi.NewServer(drv, cache, explainer, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("starting server on port %s", port)
	if err := server.Run(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
