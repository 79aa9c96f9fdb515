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

	"github.com/gin-gonic/gin"

	"github.com/farellandr/certportal/config"
	"github.com/farellandr/certportal/internal/handlers"
	"github.com/farellandr/certportal/internal/middleware"
	"github.com/farellandr/certportal/internal/portal"
)

const shutdownTimeout = 15 * time.Second

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("initializing database", "driver", cfg.Database.Driver)
	db, err := config.InitDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	p, err := portal.New(cfg, db, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize portal: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("failed to start portal: %w", err)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(p),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = p.Close(context.Background())
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	return p.Close(shutdownCtx)
}

func NewRouter(p *portal.Portal) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(p.Logger))
	r.MaxMultipartMemory = max(p.Config.MaxImportBytes, p.Config.MaxImageBytes)

	setupRoutes(r, p)
	return r
}

func setupRoutes(r *gin.Engine, p *portal.Portal) {
	r.Use(middleware.PortalMiddleware(p))

	finderLimit := middleware.RateLimit(p.Config.FinderRateLimit, p.Config.FinderBurst)
	loginLimit := middleware.RateLimit(p.Config.LoginRateLimit, p.Config.LoginBurst)

	r.GET("/", handlers.FinderPage)
	r.GET("/admin", handlers.AdminPage)

	public := r.Group("/v1")
	{
		public.POST("/auth/login", loginLimit, handlers.Login)
		public.GET("/branding", handlers.GetBranding)

		certificates := public.Group("/certificates")
		{
			certificates.GET("", finderLimit, handlers.FindCertificates)
			certificates.GET("/:id/pdf", handlers.DownloadCertificatePDF)
			certificates.GET("/:id/png", handlers.DownloadCertificatePNG)
			certificates.GET("/:id/preview", handlers.PreviewCertificate)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.POST("/auth/logout", handlers.Logout)
		protected.GET("/auth/session", handlers.GetSession)

		admin := protected.Group("/admin")

		events := admin.Group("/events")
		{
			events.GET("", handlers.ListEvents)
			events.POST("", handlers.CreateEvent)
			events.GET("/:id", handlers.GetEvent)
			events.PUT("/:id", handlers.UpdateEvent)
			events.DELETE("/:id", handlers.DeleteEvent)
		}

		categories := admin.Group("/categories")
		{
			categories.GET("", handlers.ListCategories)
			categories.POST("", handlers.CreateCategory)
			categories.PUT("/:id", handlers.UpdateCategory)
			categories.DELETE("/:id", handlers.DeleteCategory)
		}

		templates := admin.Group("/templates")
		{
			templates.GET("", handlers.ListTemplates)
			templates.POST("", handlers.CreateTemplate)
			templates.GET("/:id", handlers.GetTemplate)
			templates.PUT("/:id", handlers.UpdateTemplate)
			templates.DELETE("/:id", handlers.DeleteTemplate)
			templates.POST("/:id/preview", handlers.PreviewTemplate)
		}

		participants := admin.Group("/participants")
		{
			participants.GET("", handlers.ListParticipants)
			participants.GET("/:id", handlers.GetParticipant)
			participants.DELETE("/:id", handlers.DeleteParticipant)
			participants.GET("/:id/certificate.pdf", handlers.DownloadParticipantCertificate)
		}

		imports := admin.Group("/imports")
		{
			imports.GET("", handlers.ListImports)
			imports.POST("", handlers.CreateImport)
			imports.GET("/sample.csv", handlers.DownloadSampleCSV)
			imports.DELETE("/:id", handlers.DeleteImport)
		}

		admin.GET("/state", handlers.GetAdminState)
		admin.PUT("/settings/theme", handlers.UpdateTheme)
		admin.POST("/settings/logo", handlers.UploadLogo)
		admin.PUT("/profile", handlers.UpdateProfile)
		admin.PUT("/profile/password", handlers.ChangePassword)
	}
}
