package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/auth"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/blob"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/config"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/customers"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/export"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/mealplan"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/recipes"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage/memory"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("Подключение к PostgreSQL...")
	ctx := context.Background()
	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		log.Printf("Ошибка подключения к PostgreSQL: %v", err)
		log.Println("Fallback на in-memory storage")
		s.storage = memory.New()
	} else {
		log.Println("PostgreSQL подключен успешно")
		s.storage = pgStorage
	}
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Recipes API
	recipesService := recipes.NewService(s.storage)
	recipesHandler := recipes.NewHandler(recipesService)

	// GET /v1/recipes - search recipe catalog
	s.mux.HandleFunc("GET /v1/recipes", recipesHandler.HandleSearch)

	// GET /v1/recipes/{id} - get recipe
	s.mux.HandleFunc("GET /v1/recipes/{id}", recipesHandler.HandleGet)

	// POST /v1/recipes - create recipe
	s.mux.HandleFunc("POST /v1/recipes", recipesHandler.HandleCreate)

	// PATCH /v1/recipes/{id}/approve - approve or revoke
	s.mux.HandleFunc("PATCH /v1/recipes/{id}/approve", recipesHandler.HandleApprove)

	// DELETE /v1/recipes/{id} - delete recipe
	s.mux.HandleFunc("DELETE /v1/recipes/{id}", recipesHandler.HandleDelete)

	// Customers API
	customersService := customers.NewService(s.storage)
	customersHandler := customers.NewHandler(customersService)

	// GET /v1/customers - list trainer's customers
	s.mux.HandleFunc("GET /v1/customers", customersHandler.HandleList)

	// POST /v1/customers - create customer
	s.mux.HandleFunc("POST /v1/customers", customersHandler.HandleCreate)

	// GET /v1/customers/{id} - get customer
	s.mux.HandleFunc("GET /v1/customers/{id}", customersHandler.HandleGet)

	// PATCH /v1/customers/{id} - update customer
	s.mux.HandleFunc("PATCH /v1/customers/{id}", customersHandler.HandleUpdate)

	// DELETE /v1/customers/{id} - delete customer
	s.mux.HandleFunc("DELETE /v1/customers/{id}", customersHandler.HandleDelete)

	// Meal Plans API
	recipeSource := mealplan.NewStoreSource(s.storage)
	generator := mealplan.NewGenerator(recipeSource, nil, s.config.GeneratorPoolLimit, s.config.RecipePlaceholderImageURL)
	mealPlanService := mealplan.NewService(generator, recipeSource, s.storage, s.storage)
	mealPlanHandler := mealplan.NewHandler(mealPlanService)

	// POST /v1/meal-plans/generate - generate plan from catalog
	s.mux.HandleFunc("POST /v1/meal-plans/generate", mealPlanHandler.HandleGenerate)

	// POST /v1/meal-plans/validate - normalize + validate arbitrary plan JSON
	s.mux.HandleFunc("POST /v1/meal-plans/validate", mealPlanHandler.HandleValidate)

	// POST /v1/meal-plans - save plan
	s.mux.HandleFunc("POST /v1/meal-plans", mealPlanHandler.HandleSave)

	// GET /v1/meal-plans - list saved plans
	s.mux.HandleFunc("GET /v1/meal-plans", mealPlanHandler.HandleList)

	// GET /v1/meal-plans/{id} - get saved plan
	s.mux.HandleFunc("GET /v1/meal-plans/{id}", mealPlanHandler.HandleGet)

	// POST /v1/meal-plans/{id}/assign - assign plan to customer
	s.mux.HandleFunc("POST /v1/meal-plans/{id}/assign", mealPlanHandler.HandleAssign)

	// DELETE /v1/meal-plans/{id} - delete saved plan
	s.mux.HandleFunc("DELETE /v1/meal-plans/{id}", mealPlanHandler.HandleDelete)

	// Exports API
	exportsBlobStore := s.initBlobStore()
	exportService := export.NewService(
		s.storage,
		s.storage,
		mealPlanService,
		exportsBlobStore,
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.Blob.S3.PublicBaseURL,
		s.config.Blob.S3.PreferPublicURL,
	)
	exportHandler := export.NewHandlers(exportService)

	// POST /v1/exports - render plan to PDF/CSV
	s.mux.HandleFunc("POST /v1/exports", exportHandler.HandleCreate)

	// GET /v1/exports - list exports
	s.mux.HandleFunc("GET /v1/exports", exportHandler.HandleList)

	// GET /v1/exports/{id}/download - download rendered document
	s.mux.HandleFunc("GET /v1/exports/{id}/download", exportHandler.HandleDownload)

	// DELETE /v1/exports/{id} - delete export
	s.mux.HandleFunc("DELETE /v1/exports/{id}", exportHandler.HandleDelete)
}

// initBlobStore initializes the blob store for exports.
// Exports follow BLOB_MODE, optionally overridden via EXPORTS_MODE.
func (s *Server) initBlobStore() blob.Store {
	cfg := s.config.Blob
	effectiveMode := cfg.EffectiveExportsMode()
	if cfg.ExportsModeSet && effectiveMode != cfg.Mode {
		log.Printf("INFO blob: EXPORTS_MODE=%s overrides BLOB_MODE=%s", effectiveMode, cfg.Mode)
		cfg.Mode = effectiveMode
	}

	log.Printf("INFO blob: initializing exports store (mode=%s)", cfg.Mode)
	store, mode, err := blob.NewBlobStore(cfg, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize exports store: %v", err)
	}
	log.Printf("INFO blob: exports blob mode: %s", mode)
	return store
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// handler собирает middleware chain (снаружи внутрь): CORS → Rate Limit →
// Auth → Router. В режиме none владелец подставляется через FallbackAuth,
// чтобы owner-scoped эндпоинты работали без токена.
func (s *Server) handler() http.Handler {
	var handler http.Handler = s.mux
	switch {
	case s.config.AuthMode != "dev":
		handler = s.authMiddleware.FallbackAuth(handler)
	case s.config.AuthRequired:
		handler = s.authMiddleware.RequireAuth(handler)
	default:
		handler = s.authMiddleware.OptionalAuth(handler)
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	handler := s.handler()

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Recipes API: http://localhost%s/v1/recipes\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
