// Package server provides the HTTP REST API for the readiness service.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/edumentor/readiness/internal/analysis"
	"github.com/edumentor/readiness/internal/clustering"
	"github.com/edumentor/readiness/internal/config"
	"github.com/edumentor/readiness/internal/db"
	"github.com/edumentor/readiness/internal/extraction"
	"github.com/edumentor/readiness/internal/ingestion"
	"github.com/edumentor/readiness/internal/llm"
	"github.com/edumentor/readiness/internal/ontology"
	"github.com/edumentor/readiness/internal/roadmap"
	"github.com/edumentor/readiness/internal/scoring"
	"github.com/edumentor/readiness/internal/server/middleware"
	"github.com/edumentor/readiness/internal/types"
)

// Store is the persistence surface the handlers read from directly. Writes
// go through the domain packages, which carry their own store interfaces.
type Store interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*types.User, error)
	UpdateUser(ctx context.Context, user *types.User) error
	GetStudentSkills(ctx context.Context, userID uuid.UUID) (*types.StudentSkills, error)
	JobsByRole(ctx context.Context, role string) ([]types.JobRequirement, error)
	AllJobs(ctx context.Context) ([]types.JobRequirement, error)
	ListClusters(ctx context.Context) ([]types.JobCluster, error)
	AnalysesByUser(ctx context.Context, userID uuid.UUID, limit int) ([]types.AnalysisResult, error)
}

// Server is the HTTP server with all domain services wired in.
type Server struct {
	httpServer *http.Server

	db        *db.DB
	llmClient llm.Client

	store        Store
	normalizer   *ontology.Normalizer
	ingestor     *ingestion.Ingestor
	analyzer     *analysis.Analyzer
	clusterer    *clustering.Clusterer
	roadmapGen   *roadmap.Generator
	userService  *UserService
	jwtService   *JWTService
	validator    *validator.Validate
	hoursPerWeek int
}

// New creates a server: connects to Postgres, applies the schema, and wires
// the ingestion, scoring, clustering and roadmap services.
func New(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}

	var client llm.Client
	if cfg.GeminiAPIKey != "" {
		client, err = llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
	} else {
		log.Println("server: GEMINI_API_KEY not set, extraction falls back to rules and roadmaps are disabled")
	}

	onto, err := loadOntology(cfg.OntologyPath)
	if err != nil {
		database.Close()
		return nil, err
	}
	normalizer, err := ontology.NewNormalizer(onto)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to build normalizer: %w", err)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	ingestor := ingestion.New(database, extraction.New(client), normalizer)
	ingestor.UseBrowser = cfg.FetchUseBrowser

	s := &Server{
		db:           database,
		llmClient:    client,
		store:        database,
		normalizer:   normalizer,
		ingestor:     ingestor,
		analyzer:     analysis.New(database, scoring.NewEngine()),
		clusterer:    clustering.New(database),
		userService:  NewUserService(database, passwordConfig),
		jwtService:   NewJWTService(jwtConfig),
		validator:    validator.New(),
		hoursPerWeek: cfg.HoursPerWeek,
	}
	if client != nil {
		s.roadmapGen = roadmap.New(client)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// loadOntology loads the synonym table, from disk when a path override is
// set and from the embedded default otherwise.
func loadOntology(path string) (*ontology.Ontology, error) {
	if path != "" {
		onto, err := ontology.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load ontology from %s: %w", path, err)
		}
		return onto, nil
	}
	return ontology.LoadDefault()
}

// routes builds the router. Everything except signup, login and health
// requires a bearer token.
func (s *Server) routes() http.Handler {
	public := http.NewServeMux()
	public.HandleFunc("POST /auth/signup", s.handleSignup)
	public.HandleFunc("POST /auth/login", s.handleLogin)
	public.HandleFunc("GET /health", s.handleHealth)

	protected := http.NewServeMux()
	protected.HandleFunc("GET /users/me", s.handleGetProfile)
	protected.HandleFunc("PUT /users/me", s.handleUpdateProfile)
	protected.HandleFunc("POST /jobs", s.handleIngestJob)
	protected.HandleFunc("GET /jobs/by-role", s.handleJobsByRole)
	protected.HandleFunc("POST /skills", s.handleSubmitSkills)
	protected.HandleFunc("GET /skills", s.handleGetSkills)
	protected.HandleFunc("POST /analysis/run", s.handleRunAnalysis)
	protected.HandleFunc("GET /analyses", s.handleListAnalyses)
	protected.HandleFunc("POST /clusters/run", s.handleRunClusters)
	protected.HandleFunc("GET /clusters", s.handleListClusters)
	protected.HandleFunc("POST /roadmap", s.handleRoadmap)
	protected.HandleFunc("POST /explain/score", s.handleExplainScore)

	auth := middleware.Auth(s.jwtService)

	root := http.NewServeMux()
	root.Handle("/auth/", public)
	root.Handle("/health", public)
	root.Handle("/", auth(protected))
	return root
}

// Start listens until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}
