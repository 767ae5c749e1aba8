package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/Syaif05/superapp-admin-web/internal/config"
	"github.com/Syaif05/superapp-admin-web/internal/history"
	historydomain "github.com/Syaif05/superapp-admin-web/internal/history/domain"
	"github.com/Syaif05/superapp-admin-web/internal/link"
	linkdomain "github.com/Syaif05/superapp-admin-web/internal/link/domain"
	"github.com/Syaif05/superapp-admin-web/internal/observability"
	obsmiddleware "github.com/Syaif05/superapp-admin-web/internal/observability/logger"
	obsmetrics "github.com/Syaif05/superapp-admin-web/internal/observability/metrics"
	obstracing "github.com/Syaif05/superapp-admin-web/internal/observability/tracing"
	"github.com/Syaif05/superapp-admin-web/internal/order"
	orderdomain "github.com/Syaif05/superapp-admin-web/internal/order/domain"
	"github.com/Syaif05/superapp-admin-web/internal/product"
	productdomain "github.com/Syaif05/superapp-admin-web/internal/product/domain"
	"github.com/Syaif05/superapp-admin-web/internal/providers"
	"github.com/Syaif05/superapp-admin-web/internal/ratelimit"
	"github.com/Syaif05/superapp-admin-web/internal/stock"
	stockdomain "github.com/Syaif05/superapp-admin-web/internal/stock/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	product.Module,
	stock.Module,
	link.Module,
	history.Module,
	order.Module,
	providers.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	genID  *snowflake.Node

	productSvc productdomain.Service
	stockSvc   stockdomain.Service
	linkSvc    linkdomain.Service
	historySvc historydomain.Service
	orderSvc   orderdomain.Service

	orderLimiter *ratelimit.OrderLimiter
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	DB    *gorm.DB
	GenID *snowflake.Node

	ProductSvc productdomain.Service
	StockSvc   stockdomain.Service
	LinkSvc    linkdomain.Service
	HistorySvc historydomain.Service
	OrderSvc   orderdomain.Service

	OrderLimiter *ratelimit.OrderLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		productSvc:   p.ProductSvc,
		stockSvc:     p.StockSvc,
		linkSvc:      p.LinkSvc,
		historySvc:   p.HistorySvc,
		orderSvc:     p.OrderSvc,
		orderLimiter: p.OrderLimiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	orders := api.Group("/orders", s.OrderRateLimit())
	orders.POST("/account", s.CreateAccountOrder)
	orders.POST("/manual", s.CreateManualOrder)
	orders.POST("/link", s.CreateLinkOrder)

	api.POST("/products", s.CreateProduct)
	api.GET("/products", s.ListProducts)
	api.GET("/products/:id", s.GetProduct)
	api.PATCH("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)
	api.GET("/products/:id/template", s.GetProductTemplate)
	api.PUT("/products/:id/template", s.UpdateProductTemplate)

	api.GET("/stocks", s.ListStocks)
	api.GET("/products/:id/stocks/stats", s.StockStats)
	api.POST("/stocks", s.AddStock)
	api.POST("/stocks/bulk", s.BulkAddStock)
	api.DELETE("/stocks/:id", s.DeleteStock)

	api.POST("/link-categories", s.CreateLinkCategory)
	api.GET("/link-categories", s.ListLinkCategories)
	api.GET("/link-categories/:id", s.GetLinkCategory)
	api.PATCH("/link-categories/:id", s.UpdateLinkCategory)
	api.DELETE("/link-categories/:id", s.DeleteLinkCategory)
	api.GET("/link-categories/:id/template", s.GetLinkCategoryTemplate)
	api.PUT("/link-categories/:id/template", s.UpdateLinkCategoryTemplate)
	api.GET("/link-categories/:id/items", s.ListLinkItems)
	api.POST("/link-items", s.CreateLinkItem)
	api.PATCH("/link-items/:id", s.UpdateLinkItem)
	api.DELETE("/link-items/:id", s.DeleteLinkItem)

	api.GET("/history", s.ListHistory)
	api.DELETE("/history/:id", s.DeleteHistory)

	api.GET("/dashboard", s.Dashboard)
}
