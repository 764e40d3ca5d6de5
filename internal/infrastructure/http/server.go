package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/itfy/evoting/internal/adapter/handler/http"
	"github.com/itfy/evoting/internal/config"
	"github.com/itfy/evoting/internal/domain/gateway"
	"github.com/itfy/evoting/internal/domain/repository"
	"github.com/itfy/evoting/internal/infrastructure/database"
	"github.com/itfy/evoting/internal/middleware/auth"
	"github.com/itfy/evoting/internal/usecase"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo

	orders     *usecase.OrderService
	votes      *usecase.VoteService
	ledger     *usecase.LedgerService
	resolution *usecase.ResolutionService
	categories *usecase.CategoryService
	candidates *usecase.CandidateService
	catalog    *usecase.CatalogService
	gateway    gateway.Client
}

// NewServer wires the service graph onto an echo instance.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	repos *database.Repositories,
	cache repository.CacheRepository,
	publisher usecase.Publisher,
	gatewayClient gateway.Client,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	clock := usecase.SystemClock()

	return &Server{
		config:     cfg,
		logger:     logger,
		echo:       e,
		orders:     usecase.NewOrderService(repos.Payment, repos.Bundle, repos.Coupon, repos.Category, gatewayClient, clock, logger),
		votes:      usecase.NewVoteService(repos.Payment, repos.Category, repos.Candidate, publisher, clock, logger),
		ledger:     usecase.NewLedgerService(repos.Payment, repos.Webhook, publisher, clock, logger),
		resolution: usecase.NewResolutionService(repos.Vote, repos.Category, cache, logger),
		categories: usecase.NewCategoryService(repos.Event, repos.Category, logger),
		candidates: usecase.NewCandidateService(repos.Candidate, repos.Category, repos.Event, cache, logger),
		catalog:    usecase.NewCatalogService(repos.Bundle, repos.Coupon, repos.Category, logger),
		gateway:    gatewayClient,
	}
}

// Ledger exposes the ledger service for the reaper worker.
func (s *Server) Ledger() *usecase.LedgerService {
	return s.ledger
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "evoting",
		})
	})

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(s.orders, s.logger)
	voteHandler := handlers.NewVoteHandler(s.votes, s.logger)
	standingsHandler := handlers.NewStandingsHandler(s.resolution, s.catalog, s.logger)
	adminHandler := handlers.NewAdminHandler(s.categories, s.candidates, s.catalog, s.ledger, s.logger)
	webhookHandler := handlers.NewWebhookHandler(s.ledger, s.gateway, s.logger)

	// Gateway webhook (signature-verified, no JWT)
	s.echo.POST("/webhook/paystack", webhookHandler.Handle)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Public voter routes
	v1.POST("/orders", orderHandler.CreateOrder)
	v1.GET("/orders/:reference", orderHandler.GetOrder)
	v1.POST("/votes", voteHandler.CastVotes)
	v1.GET("/votes/balance/:reference", voteHandler.GetBalance)
	v1.GET("/categories/:id/bundles", standingsHandler.ListBundles)
	v1.GET("/categories/:id/standings", standingsHandler.GetStandings)
	v1.GET("/categories/:id/winner", standingsHandler.GetWinner)

	// Admin routes (require JWT authentication)
	jwtConfig := auth.JWTConfig{
		Secret: s.config.Service.JWTSecret,
		Logger: s.logger,
	}
	admin := v1.Group("/admin", auth.JWTMiddleware(jwtConfig))
	admin.POST("/events", adminHandler.CreateEvent)
	admin.GET("/events/:id/categories", adminHandler.ListCategories)
	admin.POST("/categories", adminHandler.CreateCategory)
	admin.POST("/categories/:id/advance", adminHandler.AdvanceCategoryStatus)
	admin.POST("/candidates", adminHandler.CreateCandidate)
	admin.POST("/bundles", adminHandler.CreateBundle)
	admin.DELETE("/bundles/:id", adminHandler.RetireBundle)
	admin.POST("/coupons", adminHandler.CreateCoupon)
	admin.POST("/reap", adminHandler.ReapExpired)
}
