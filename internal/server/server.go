package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/ledgerlinelabs/ledgerline/internal/client/domain"
	"github.com/ledgerlinelabs/ledgerline/internal/config"
	dashboarddomain "github.com/ledgerlinelabs/ledgerline/internal/dashboard/domain"
	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
	"github.com/ledgerlinelabs/ledgerline/internal/invoice/render"
	"github.com/ledgerlinelabs/ledgerline/internal/mailer"
	"github.com/ledgerlinelabs/ledgerline/internal/observability"
	recurringdomain "github.com/ledgerlinelabs/ledgerline/internal/recurring/domain"
	settingsdomain "github.com/ledgerlinelabs/ledgerline/internal/settings/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Server struct {
	log *zap.Logger
	cfg *config.Config

	clientSvc    clientdomain.Service
	invoiceSvc   invoicedomain.Service
	recurringSvc recurringdomain.Service
	settingsSvc  settingsdomain.Service
	dashboardSvc dashboarddomain.Service

	renderer *render.Renderer
	mailer   mailer.Mailer
	metrics  *observability.Metrics
}

type ServerParam struct {
	fx.In

	Log    *zap.Logger
	Config *config.Config

	ClientSvc    clientdomain.Service
	InvoiceSvc   invoicedomain.Service
	RecurringSvc recurringdomain.Service
	SettingsSvc  settingsdomain.Service
	DashboardSvc dashboarddomain.Service

	Renderer *render.Renderer
	Mailer   mailer.Mailer
	Metrics  *observability.Metrics
}

func NewServer(p ServerParam) *Server {
	return &Server{
		log: p.Log.Named("server"),
		cfg: p.Config,

		clientSvc:    p.ClientSvc,
		invoiceSvc:   p.InvoiceSvc,
		recurringSvc: p.RecurringSvc,
		settingsSvc:  p.SettingsSvc,
		dashboardSvc: p.DashboardSvc,

		renderer: p.Renderer,
		mailer:   p.Mailer,
		metrics:  p.Metrics,
	}
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(s.log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")

	clients := api.Group("/clients")
	clients.POST("", s.CreateClient)
	clients.GET("", s.ListClients)
	clients.GET("/:id", s.GetClientByID)
	clients.PUT("/:id", s.UpdateClient)
	clients.DELETE("/:id", s.DeleteClient)

	invoices := api.Group("/invoices")
	invoices.POST("", s.CreateInvoice)
	invoices.GET("", s.ListInvoices)
	invoices.GET("/:id", s.GetInvoiceByID)
	invoices.PUT("/:id", s.UpdateInvoice)
	invoices.DELETE("/:id", s.DeleteInvoice)
	invoices.POST("/:id/status/:status", s.UpdateInvoiceStatus)
	invoices.GET("/:id/download", s.DownloadInvoice)
	invoices.POST("/:id/email", s.EmailInvoice)

	recurring := api.Group("/recurring")
	recurring.POST("", s.CreateSchedule)
	recurring.GET("", s.ListSchedules)
	recurring.POST("/generate", s.GenerateRecurring)
	recurring.GET("/:id", s.GetScheduleByID)
	recurring.PUT("/:id", s.UpdateSchedule)
	recurring.DELETE("/:id", s.DeleteSchedule)

	settings := api.Group("/settings")
	settings.GET("", s.ListSettings)
	settings.GET("/:key", s.GetSetting)
	settings.PUT("/:key", s.PutSetting)

	api.GET("/currencies", s.ListCurrencies)
	api.GET("/dashboard", s.GetDashboard)

	return router
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(registerHTTPServer),
)

func registerHTTPServer(lc fx.Lifecycle, s *Server, cfg *config.Config, log *zap.Logger) {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
	})
}
