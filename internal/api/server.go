package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"spread-entry-engine/internal/auth"
	"spread-entry-engine/internal/cache"
	"spread-entry-engine/internal/database"
	"spread-entry-engine/internal/engine"
	"spread-entry-engine/internal/events"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimiter provides simple in-memory rate limiting per endpoint
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	limit    int           // max requests
	window   time.Duration // time window
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Allow checks if a request is allowed for the given key
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-r.window)

	// Filter out old requests
	var recent []time.Time
	for _, t := range r.requests[key] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= r.limit {
		r.requests[key] = recent
		return false
	}

	r.requests[key] = append(recent, now)
	return true
}

// Server represents the HTTP API server
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	engine      *engine.Engine
	db          *database.DB // Can be nil when persistence is disabled
	cache       *cache.DecisionCache
	eventBus    *events.EventBus
	config      ServerConfig
	jwtManager  *auth.JWTManager // Can be nil when auth is disabled
	authEnabled bool
	rateLimiter *RateLimiter
	logger      zerolog.Logger
	startedAt   time.Time
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	ProductionMode bool
	AllowedOrigins []string

	// Operator-configured sizing defaults applied when a request omits
	// account_size or max_risk_percent
	DefaultAccountSize    float64
	DefaultMaxRiskPercent float64
}

// NewServer creates a new API server
func NewServer(
	config ServerConfig,
	decisionEngine *engine.Engine,
	db *database.DB, // Can be nil if persistence is disabled
	decisionCache *cache.DecisionCache,
	eventBus *events.EventBus,
	jwtManager *auth.JWTManager, // Can be nil if auth is disabled
	logger zerolog.Logger,
) *Server {
	if config.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(config.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = config.AllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:8088"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	server := &Server{
		router:      router,
		engine:      decisionEngine,
		db:          db,
		cache:       decisionCache,
		eventBus:    eventBus,
		config:      config,
		jwtManager:  jwtManager,
		authEnabled: jwtManager != nil,
		rateLimiter: NewRateLimiter(120, time.Minute),
		logger:      logger.With().Str("component", "api").Logger(),
		startedAt:   time.Now(),
	}

	server.setupRoutes()

	// Websocket hub broadcasts every published event to connected clients
	InitWebSocket(eventBus, server.logger)

	return server
}

// rateLimitMiddleware limits requests per endpoint path
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		if !s.rateLimiter.Allow(path) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": "Too many requests to this endpoint. Please slow down.",
				"path":    path,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// Auth status endpoint (always available, returns whether auth is enabled)
	s.router.GET("/api/auth/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"auth_enabled": s.authEnabled,
		})
	})

	// API routes (protected when auth is enabled)
	api := s.router.Group("/api")
	api.Use(s.rateLimitMiddleware())

	if s.authEnabled {
		api.Use(auth.Middleware(s.jwtManager))
	}

	{
		api.POST("/evaluate", s.handleEvaluate)
		api.POST("/evaluate/batch", s.handleEvaluateBatch)
		api.GET("/decisions", s.handleGetDecisions)
		api.GET("/decisions/:ticker", s.handleGetCachedDecision)
		api.DELETE("/decisions/:ticker", s.handleInvalidateDecision)
	}

	// WebSocket endpoint
	s.router.GET("/ws", s.handleWebSocket)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Router exposes the gin engine, used by tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// handleHealth returns server health status
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	dbStatus := "disabled"
	if s.db != nil {
		dbStatus = "healthy"
		if err := s.db.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbStatus,
		"uptime":   time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// errorResponse is a helper to send error responses
func errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":   true,
		"message": message,
	})
}

// successResponse is a helper to send success responses
func successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
