package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/farellandr/eventhub/config"
	"github.com/farellandr/eventhub/internal/auth"
	"github.com/farellandr/eventhub/internal/handlers"
	"github.com/farellandr/eventhub/internal/helpers"
	"github.com/farellandr/eventhub/internal/logger"
	"github.com/farellandr/eventhub/internal/middleware"
	"github.com/farellandr/eventhub/internal/repository"
	"github.com/farellandr/eventhub/internal/service"
)

const shutdownTimeout = 10 * time.Second

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           NewRouter(cfg, db),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

// NewRouter wires repositories, services and handlers onto a gin engine.
func NewRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	repos := repository.NewRepositories(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	services := service.NewServices(repos, cfg, tokens)
	h := handlers.NewHandlers(services, cfg)

	r := gin.New()
	r.Use(middleware.Metrics(), middleware.Logger(), middleware.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static(helpers.UploadURLPrefix, cfg.UploadDir)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupRoutes(r, h, services.Auth, cfg)
	return r
}

func setupRoutes(r *gin.Engine, h *handlers.Handlers, authService *service.AuthService, cfg *config.Config) {
	loginLimit := middleware.LoginRateLimit(cfg.LoginRateLimit, cfg.LoginRateBurst)

	r.POST("/register", h.Register)
	r.POST("/login", loginLimit, h.Login)
	r.POST("/admin/login", loginLimit, h.AdminLogin)
	r.POST("/logout", h.Logout)

	r.GET("/events", h.ListEvents)
	r.GET("/createEvent", h.ListEvents)
	r.GET("/event/:id", h.GetEvent)
	r.GET("/event/:id/ordersummary", h.GetEvent)
	r.GET("/event/:id/ordersummary/paymentsummary", h.GetEvent)
	r.POST("/event/:id/like", h.LikeEvent)

	protected := r.Group("")
	protected.Use(middleware.Authenticate(authService))
	{
		protected.GET("/profile", h.GetProfile)
		protected.GET("/user", h.GetProfile)

		protected.POST("/createEvent", h.CreateEvent)
		protected.DELETE("/event/:id", h.DeleteEvent)
		protected.DELETE("/events/:id", h.DeleteEvent)

		tickets := protected.Group("/tickets")
		{
			tickets.POST("", h.CreateTicket)
			tickets.GET("", h.ListTickets)
			tickets.GET("/user/:userId", h.ListUserTickets)
			tickets.GET("/:id/qr", h.GetTicketQR)
			tickets.DELETE("/:id", h.DeleteTicket)
		}
	}

	admin := r.Group("")
	admin.Use(middleware.Authenticate(authService), middleware.RequireAdmin())
	{
		admin.GET("/admin/events", h.ListEvents)
		admin.POST("/event/:id/approve", h.ApproveEvent)
		admin.POST("/event/:id/reject", h.RejectEvent)
	}
}
