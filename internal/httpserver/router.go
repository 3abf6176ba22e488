package httpserver

import (
	"context"
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
	usersvc "storefront/internal/service/user"
)

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
}

type userService interface {
	Register(ctx context.Context, in usersvc.Credentials) (*domain.User, error)
	Login(ctx context.Context, in usersvc.Credentials) (*domain.User, error)
}

type orderService interface {
	Create(ctx context.Context, in ordersvc.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
}

// Deps holds the services the API is built on.
type Deps struct {
	ProductSvc  productService
	UserSvc     userService
	OrderSvc    orderService
	Ready       Pinger
	CORSOrigins []string
	// Registry receives the request metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if deps.ProductSvc == nil || deps.UserSvc == nil || deps.OrderSvc == nil {
		return nil, errors.New("httpserver: product, user and order services are required")
	}
	if logger == nil {
		logger = logDiscard()
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(
		requestIDMiddleware(),
		gin.LoggerWithWriter(logger.Writer()),
		gin.Recovery(),
		cors.New(corsConfig(deps.CORSOrigins)),
		metrics.middleware(),
	)

	router.GET("/", welcomeHandler)
	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Ready))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	h := &handlers{products: deps.ProductSvc, users: deps.UserSvc, orders: deps.OrderSvc, logger: logger}
	api := router.Group("/api")
	api.GET("/products", h.listProducts)
	api.POST("/products", h.createProduct)
	api.POST("/users/register", h.register)
	api.POST("/users/login", h.login)
	api.POST("/orders", h.createOrder)
	api.GET("/orders/:id", h.getOrder)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, requestIDHeader)
	cfg.ExposeHeaders = []string{requestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
