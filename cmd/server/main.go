package main

import (
	"context"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/ylcard/budgetwise/internal/config"
	"github.com/ylcard/budgetwise/internal/logger"
	"github.com/ylcard/budgetwise/internal/service"
	"github.com/ylcard/budgetwise/internal/store"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	var st store.Store
	if cfg.UseMemoryStore {
		log.Info().Msg("using in-memory store")
		st = store.NewMemoryStore()
	} else {
		projectID := cfg.GCPProjectID
		if projectID == "" {
			log.Fatal().Msg("GOOGLE_CLOUD_PROJECT is required unless USE_MEMORY_STORE=true")
		}
		client, err := firestore.NewClient(context.Background(), projectID)
		if err != nil {
			log.Fatal().Err(err).Msg("create firestore client")
		}
		defer client.Close()
		log.Info().Str("project", projectID).Msg("using firestore store")
		st = store.NewFirestoreStore(client)
	}

	svc := service.NewAnalyticsService(st, log)

	mux := http.NewServeMux()
	svc.Register(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "X-User-ID"},
		AllowCredentials: true,
	})

	// h2c lets the service speak HTTP/2 behind Cloud Run's plaintext ingress.
	handler := h2c.NewHandler(corsHandler.Handler(mux), &http2.Server{})

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("analytics server listening")
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
