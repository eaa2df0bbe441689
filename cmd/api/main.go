package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	internalaws "github.com/fragrancedemumu/storefront-go/internal/aws"
	"github.com/fragrancedemumu/storefront-go/internal/backend"
	"github.com/fragrancedemumu/storefront-go/internal/cart"
	"github.com/fragrancedemumu/storefront-go/internal/cartsync"
	"github.com/fragrancedemumu/storefront-go/internal/checkout"
	"github.com/fragrancedemumu/storefront-go/internal/handlers"
	"github.com/fragrancedemumu/storefront-go/internal/metrics"
	"github.com/fragrancedemumu/storefront-go/internal/mirror"
	"github.com/fragrancedemumu/storefront-go/internal/promo"
	"github.com/fragrancedemumu/storefront-go/internal/session"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterCartRoutes(r, cfg)
	handlers.RegisterCheckoutRoutes(r, cfg)
	handlers.RegisterSessionRoutes(r, cfg)
	handlers.RegisterCatalogRoutes(r, cfg)

	return r
}

func newStorage(ctx context.Context, log logrus.FieldLogger) cart.Storage {
	if addr := os.Getenv("CART_REDIS_ADDR"); addr != "" {
		key := os.Getenv("CART_REDIS_KEY")
		if key == "" {
			key = "storefront:cart"
		}
		store, err := cart.NewRedisStorage(ctx, addr, key)
		if err != nil {
			log.WithError(err).Fatal("failed to connect cart redis storage")
		}
		return store
	}
	path := os.Getenv("CART_STORAGE_PATH")
	if path == "" {
		path = "cart.json"
	}
	return cart.NewFileStorage(path)
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	baseURL := os.Getenv("SHOP_BACKEND_URL")
	if baseURL == "" {
		log.Fatal("SHOP_BACKEND_URL is required")
	}
	shop := backend.New(baseURL)

	ctx := context.Background()

	var reporter *metrics.CloudWatchReporter
	if os.Getenv("METRICS_DISABLED") != "true" {
		clients, err := internalaws.NewAWSClients(ctx)
		if err != nil {
			log.WithError(err).Warn("aws clients unavailable, metrics disabled")
		} else {
			reporter = metrics.NewCloudWatchReporter(clients.CloudWatch, log)
		}
	}

	sessions := session.NewManager()
	store := cart.New(newStorage(ctx, log), log)

	var mirrorReporter mirror.Reporter
	if reporter != nil {
		mirrorReporter = reporter
	}
	mirror.New(shop, sessions, mirrorReporter, log).Attach(store)
	cartsync.New(store, shop, log).Attach(sessions)

	shippingFee := checkout.DefaultShippingFee
	if raw := os.Getenv("FLAT_SHIPPING_FEE"); raw != "" {
		fee, err := decimal.NewFromString(raw)
		if err != nil {
			log.WithError(err).Fatal("invalid FLAT_SHIPPING_FEE")
		}
		shippingFee = fee
	}
	calc := checkout.NewCalculator(shippingFee)

	cfg := handlers.HandlerConfig{
		Cart:     store,
		Sessions: sessions,
		Promos:   promo.NewResolver(shop),
		Checkout: checkout.NewSubmitter(shop, calc, log),
		Calc:     calc,
		Catalog:  shop,
		Log:      log,
	}
	if reporter != nil {
		cfg.Metrics = reporter
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := os.Getenv("LISTEN_ADDR")
		if addr == "" {
			addr = ":8080"
		}
		log.WithField("addr", addr).Info("running local server")
		if err := r.Run(addr); err != nil {
			log.WithError(err).Fatal("failed to run local server")
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
