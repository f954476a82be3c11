// Command proxy runs the same-origin search proxy as a standalone service.
// It serves the same credential-injecting handler the main server mounts at
// /proxy/search, for deployments that front the search service separately
// from the chat application.
package main

import (
	"log"
	"net/http"

	"tablechat/internal/config"
	"tablechat/internal/proxy"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !appConfig.HasSearch() {
		log.Fatal("SEARCH_ENDPOINT and SEARCH_API_KEY are required to run the proxy")
	}

	searchProxy, err := proxy.NewSearchProxy(appConfig.Search)
	if err != nil {
		log.Fatalf("Failed to create search proxy: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/proxy/search/*", http.StripPrefix("/proxy/search", searchProxy))

	addr := ":" + appConfig.Server.Port
	log.Printf("Starting search proxy on %s", addr)
	log.Fatal(http.ListenAndServe(addr, router))
}
