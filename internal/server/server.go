// Package server exposes the billing engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/cache"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/config"
	invoicedomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/logger"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/tracing"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg        config.Config
	Log        *zap.Logger
	InvoiceSvc invoicedomain.Service
}

type Server struct {
	cfg         config.Config
	log         *zap.Logger
	invoiceSvc  invoicedomain.Service
	publicLimit *rateLimiter
	statsCache  *cache.TTLCache[string, *invoicedomain.MonthlyStats]
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:         p.Cfg,
		log:         p.Log.Named("server"),
		invoiceSvc:  p.InvoiceSvc,
		publicLimit: newRateLimiter(p.Cfg.PublicRateLimit, p.Cfg.PublicRateWindow),
		statsCache:  cache.NewTTLCache[string, *invoicedomain.MonthlyStats](),
	}
}

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(tracing.GinMiddleware())
	engine.Use(logger.GinMiddleware(log))
	return engine
}

func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	{
		invoices := api.Group("/invoices")
		invoices.GET("", s.ListInvoices)
		invoices.POST("", s.GenerateDraft)
		invoices.POST("/preview", s.PreviewInvoice)
		invoices.POST("/bulk", s.GenerateBulkDrafts)
		invoices.GET("/stats", s.MonthlyStats)
		invoices.GET("/:id", s.GetInvoice)
		invoices.PATCH("/:id", s.UpdateDraft)
		invoices.POST("/:id/publish", s.PublishInvoice)
		invoices.POST("/:id/unpublish", s.UnpublishInvoice)
		invoices.POST("/:id/payments", s.RecordPayment)
		invoices.POST("/:id/cancel", s.CancelInvoice)
		invoices.DELETE("/:id", s.RemoveInvoice)
	}

	engine.GET("/p/bills/:code", s.PublicBill)
}

func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, s *Server, cfg config.Config, log *zap.Logger) {
	s.RegisterRoutes(engine)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)
