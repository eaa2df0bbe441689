package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fragrancedemumu/storefront-go/internal/backend"
	"github.com/fragrancedemumu/storefront-go/internal/cart"
	"github.com/fragrancedemumu/storefront-go/internal/checkout"
	"github.com/fragrancedemumu/storefront-go/internal/filter"
	"github.com/fragrancedemumu/storefront-go/internal/promo"
	"github.com/fragrancedemumu/storefront-go/internal/session"
	"github.com/fragrancedemumu/storefront-go/internal/validation"
)

// ProductLister is the catalog listing the products page proxies to.
type ProductLister interface {
	ListProducts(ctx context.Context, f filter.Filters) ([]backend.Product, error)
}

// Reporter is the slice of the metrics reporter the handlers use.
type Reporter interface {
	PromotionRejected()
	OrderSubmitFailure()
}

type nopReporter struct{}

func (nopReporter) PromotionRejected()  {}
func (nopReporter) OrderSubmitFailure() {}

// HandlerConfig groups dependencies for the storefront routes.
type HandlerConfig struct {
	Cart     *cart.Cart
	Sessions *session.Manager
	Promos   *promo.Resolver
	Checkout *checkout.Submitter
	Calc     checkout.Calculator
	Catalog  ProductLister
	Metrics  Reporter
	Log      logrus.FieldLogger
}

func (cfg *HandlerConfig) reporter() Reporter {
	if cfg.Metrics == nil {
		return nopReporter{}
	}
	return cfg.Metrics
}

// cartView is the cart payload returned by every cart route: the state plus
// its derived count and subtotal, recomputed on each request.
func cartView(c *cart.Cart) gin.H {
	items := c.Items()
	return gin.H{
		"items":    items,
		"count":    cart.ItemsCount(items),
		"subtotal": cart.Subtotal(items),
	}
}

// RegisterCartRoutes registers the cart routes.
func RegisterCartRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.GET("/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, cartView(cfg.Cart))
	})

	r.POST("/cart/items", func(c *gin.Context) {
		var req validation.AddItemRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		err := cfg.Cart.Add(cart.Product{
			ID:        req.Product.ID,
			Name:      req.Product.Name,
			Brand:     req.Product.Brand,
			UnitPrice: req.Product.UnitPrice,
			ImageRef:  req.Product.ImageRef,
			Stock:     req.Product.Stock,
		}, req.Quantity)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_item", "msg": err.Error()})
			return
		}

		view := cartView(cfg.Cart)
		view["message"] = req.Product.Name + " added to cart"
		c.JSON(http.StatusCreated, view)
	})

	r.PUT("/cart/items/:productID", func(c *gin.Context) {
		var req validation.UpdateQtyRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		cfg.Cart.UpdateQty(c.Param("productID"), req.Quantity)
		c.JSON(http.StatusOK, cartView(cfg.Cart))
	})

	r.DELETE("/cart/items/:productID", func(c *gin.Context) {
		cfg.Cart.Remove(c.Param("productID"))
		c.JSON(http.StatusOK, cartView(cfg.Cart))
	})

	r.POST("/cart/clear", func(c *gin.Context) {
		cfg.Cart.Clear()
		c.JSON(http.StatusOK, cartView(cfg.Cart))
	})
}

// RegisterCatalogRoutes registers the product-listing proxy. Filters are
// decoded from the query string and re-encoded canonically for the backend.
func RegisterCatalogRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.GET("/products", func(c *gin.Context) {
		f := filter.Decode(c.Request.URL.Query())
		products, err := cfg.Catalog.ListProducts(c.Request.Context(), f)
		if err != nil {
			cfg.Log.WithError(err).Warn("catalog: listing failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog_unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "filters": f.Encode()})
	})
}
