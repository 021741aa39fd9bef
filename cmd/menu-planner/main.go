// cmd/menu-planner/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"mcp-menu-planner/internal/estimator"
	"mcp-menu-planner/internal/server"
)

var (
	transport  = flag.String("transport", "http", "Transport mode: http")
	port       = flag.Int("port", 8011, "Port for HTTP transport")
	host       = flag.String("host", "0.0.0.0", "Host address")
	address    = flag.String("address", "", "Address (alias for host)")
	dbPath     = flag.String("db-path", "/data/menu-planner.db", "Database path")
	catalogDir = flag.String("catalog-dir", "", "Directory of food CSV files to import and watch")
	version    = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("mcp-menu-planner version 1.0.0")
		os.Exit(0)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	if *transport != "http" {
		log.Fatalf("Unsupported transport: %s", *transport)
	}

	// Use address if provided, otherwise use host
	hostAddr := *host
	if *address != "" {
		hostAddr = *address
	}

	est, err := selectEstimator()
	if err != nil {
		log.Fatalf("Failed to create estimator: %v", err)
	}

	config := &server.Config{
		Transport:  *transport,
		Host:       hostAddr,
		Port:       *port,
		DBPath:     *dbPath,
		CatalogDir: *catalogDir,
		Seed:       !strings.EqualFold(os.Getenv("MENU_PLANNER_SEED"), "false"),
		Estimator:  est,
	}

	srv, err := server.NewMenuPlannerServer(config)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-sigCh:
		log.Println("Received shutdown signal")
	case err := <-errCh:
		log.Printf("Server error: %v", err)
	}

	log.Println("Shutting down...")
	cancel()
	if err := srv.Stop(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}

// selectEstimator prefers a direct OpenRouter key, then the MCP proxy
// gateway, and answers offline when neither is configured.
func selectEstimator() (estimator.Estimator, error) {
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		log.Println("Nutrition estimates via OpenRouter")
		return estimator.NewOpenRouterClient(key, os.Getenv("OPENROUTER_MODEL"))
	}
	if os.Getenv("MCP_PROXY_URL") != "" || os.Getenv("MCP_PROXY_API_KEY") != "" {
		cfg := estimator.GatewayConfigFromEnv()
		log.Printf("Nutrition estimates via gateway at %s", cfg.ProxyURL)
		return estimator.NewGatewayClient(cfg), nil
	}
	log.Println("No model configured, nutrition estimates use the default values")
	return estimator.Offline{}, nil
}
