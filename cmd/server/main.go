package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"netadmin/internal/config"
	"netadmin/internal/database"
	"netadmin/internal/handlers"
	"netadmin/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize services
	store := services.NewConfigStore(db)
	if err := store.LoadFromDB(); err != nil {
		log.Printf("Warning: failed to load interface configs: %v", err)
	}

	linkService := services.NewLinkService(services.RealNetlinker{})
	firewallService := services.NewFirewallService(store, services.NFTRunner{})
	topologyService := services.NewTopologyService()

	// Build and apply the initial ruleset from the declared configuration.
	if err := firewallService.Initialize(); err != nil {
		log.Printf("Warning: failed to apply initial ruleset: %v", err)
	}

	// Start background traffic sampling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	topologyService.StartTrafficMonitoring(ctx)

	// Initialize handlers
	interfacesHandler := handlers.NewInterfacesHandler(linkService, store, topologyService, db)
	firewallHandler := handlers.NewFirewallHandler(firewallService, db)
	topologyHandler := handlers.NewTopologyHandler(topologyService, linkService)

	// Setup router
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)

	r.Get("/api/health", handlers.Health)

	r.Route("/api/network", func(r chi.Router) {
		r.Get("/interfaces", interfacesHandler.List)
		r.Post("/setup/{interface}", interfacesHandler.Setup)
		r.Get("/firewall/rules", firewallHandler.GetRules)
		r.Post("/firewall/rules", firewallHandler.AddRule)
		r.Delete("/firewall/rules/{handle}", firewallHandler.DeleteRule)
	})

	r.Route("/api/visualizations", func(r chi.Router) {
		r.Get("/network-graph", topologyHandler.Graph)
		r.Get("/network-diagram/{format}", topologyHandler.Export)
		r.Get("/traffic-stats", topologyHandler.TrafficStats)
		r.Get("/traffic-history/{interface}", topologyHandler.TrafficHistory)
	})

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		cancel()
		db.Close()
		os.Exit(0)
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting netadmin on %s", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
