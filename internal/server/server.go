// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"mcp-menu-planner/internal/catalog"
	"mcp-menu-planner/internal/estimator"
	"mcp-menu-planner/internal/plan"
	"mcp-menu-planner/internal/planner"
	"mcp-menu-planner/internal/storage"
	"mcp-menu-planner/internal/templates"
)

const (
	serverName    = "menu-planner"
	serverVersion = "1.0.0"
)

type Config struct {
	Transport  string
	Host       string
	Port       int
	DBPath     string
	CatalogDir string
	// Seed loads the built-in foods and templates into an empty database.
	Seed      bool
	Estimator estimator.Estimator
}

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

type MenuPlannerServer struct {
	httpServer *http.Server
	storage    *storage.SQLiteStorage
	estimator  estimator.Estimator
	watcher    *catalog.Watcher
	tools      map[string]toolHandler
	config     *Config

	// planMu serialises every plan write: create, load-edit-save and delete.
	planMu sync.Mutex
}

func NewMenuPlannerServer(cfg *Config) (*MenuPlannerServer, error) {
	stor, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	est := cfg.Estimator
	if est == nil {
		est = estimator.Offline{}
	}

	s := &MenuPlannerServer{
		storage:   stor,
		estimator: est,
		config:    cfg,
	}

	if cfg.Seed {
		if err := s.seed(context.Background()); err != nil {
			stor.Close()
			return nil, err
		}
	}

	if cfg.CatalogDir != "" {
		w, err := catalog.NewWatcher(cfg.CatalogDir, stor)
		if err != nil {
			stor.Close()
			return nil, fmt.Errorf("failed to watch catalog directory: %w", err)
		}
		s.watcher = w
	}

	s.registerTools()

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHTTP)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func (s *MenuPlannerServer) seed(ctx context.Context) error {
	foods, err := catalog.Seed()
	if err != nil {
		return fmt.Errorf("failed to read seed foods: %w", err)
	}
	n, err := s.storage.SeedFoods(ctx, foods)
	if err != nil {
		return fmt.Errorf("failed to seed foods: %w", err)
	}
	if n > 0 {
		log.Printf("Seeded %d foods", n)
	}

	tpls, err := templates.Defaults()
	if err != nil {
		return fmt.Errorf("failed to read default templates: %w", err)
	}
	if err := s.storage.SeedTemplates(ctx, tpls); err != nil {
		return fmt.Errorf("failed to seed templates: %w", err)
	}
	return nil
}

type serverInfo struct {
	protocol.Implementation
	Tools []string `json:"tools"`
}

func (s *MenuPlannerServer) handleServerInfo(context.Context, *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(serverInfo{
		Implementation: protocol.Implementation{Name: serverName, Version: serverVersion},
		Tools:          s.toolNames(),
	})
}

// Handler exposes the MCP endpoint, mainly for tests.
func (s *MenuPlannerServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *MenuPlannerServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	result, err := handler(r.Context(), &request)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("Tool %s failed: %v", request.Name, err)
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

var errInvalidParams = errors.New("invalid parameters")

func invalidParams(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errInvalidParams, fmt.Sprintf(format, args...))
}

var badRequestErrors = []error{
	errInvalidParams,
	plan.ErrDayOutOfRange,
	plan.ErrInvalidDayCount,
	plan.ErrUnknownMeal,
	plan.ErrNotChoiceMode,
	plan.ErrTooManyOptions,
	plan.ErrOptionNotFound,
	plan.ErrEntryNotFound,
	plan.ErrUnknownField,
	plan.ErrInvalidValue,
	planner.ErrNotDerived,
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// Start loads the catalog directory, starts the watcher and serves until
// Stop is called.
func (s *MenuPlannerServer) Start(ctx context.Context) error {
	if s.watcher != nil {
		if err := s.watcher.LoadExisting(ctx); err != nil {
			log.Printf("Failed to load catalog directory: %v", err)
		}
		go s.watcher.Watch(ctx)
		log.Printf("Watching %s for food CSV files", s.config.CatalogDir)
	}

	log.Printf("Starting menu planner server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *MenuPlannerServer) Stop() error {
	var err error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = s.httpServer.Shutdown(ctx)
	}
	s.closeResources()
	return err
}

func (s *MenuPlannerServer) closeResources() {
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			log.Printf("Failed to close catalog watcher: %v", err)
		}
	}
	if s.storage != nil {
		s.storage.Close()
	}
}

func (s *MenuPlannerServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}

// lookup snapshots the food catalog for one request.
func (s *MenuPlannerServer) lookup(ctx context.Context) (*catalog.Catalog, error) {
	foods, err := s.storage.ListFoods(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load foods: %w", err)
	}
	return catalog.New(foods), nil
}
