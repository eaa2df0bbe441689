package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fragrancedemumu/storefront-go/internal/cart"
	"github.com/fragrancedemumu/storefront-go/internal/checkout"
	"github.com/fragrancedemumu/storefront-go/internal/promo"
	"github.com/fragrancedemumu/storefront-go/internal/validation"
)

// RegisterCheckoutRoutes registers the promotion and order routes.
func RegisterCheckoutRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	metrics := cfg.reporter()

	r.GET("/checkout/summary", func(c *gin.Context) {
		snap := cfg.Calc.Snapshot(cfg.Cart.Items(), cfg.Promos.Current())
		c.JSON(http.StatusOK, gin.H{"prices": snap, "promotion": cfg.Promos.Current()})
	})

	r.POST("/checkout/promotion", func(c *gin.Context) {
		var req validation.ApplyPromotionRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		subtotal := cart.Subtotal(cfg.Cart.Items())
		applied, err := cfg.Promos.Apply(c.Request.Context(), req.Code, subtotal)
		if err != nil {
			var rejected *promo.RejectedError
			switch {
			case errors.As(err, &rejected):
				metrics.PromotionRejected()
				// the backend's rejection message goes to the user verbatim
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "promotion_rejected", "message": rejected.Message})
			case errors.Is(err, promo.ErrInFlight):
				c.JSON(http.StatusConflict, gin.H{"error": "promotion_check_in_flight"})
			case errors.Is(err, promo.ErrEmptyCode):
				c.JSON(http.StatusBadRequest, gin.H{"error": "empty_code"})
			default:
				cfg.Log.WithError(err).Warn("checkout: promotion validation failed")
				c.JSON(http.StatusBadGateway, gin.H{"error": "promotion_check_failed"})
			}
			return
		}

		snap := cfg.Calc.Snapshot(cfg.Cart.Items(), applied)
		c.JSON(http.StatusOK, gin.H{"promotion": applied, "message": applied.Message, "prices": snap})
	})

	r.DELETE("/checkout/promotion", func(c *gin.Context) {
		cfg.Promos.Remove()
		snap := cfg.Calc.Snapshot(cfg.Cart.Items(), nil)
		c.JSON(http.StatusOK, gin.H{"prices": snap})
	})

	r.POST("/checkout/order", func(c *gin.Context) {
		var req validation.SubmitOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		var userID string
		if u := cfg.Sessions.Current(); u != nil {
			userID = u.ID
		}

		receipt, err := cfg.Checkout.Submit(c.Request.Context(), userID, cfg.Cart.Items(), cfg.Promos.Current(), req.Shipping)
		if err != nil {
			if errors.Is(err, checkout.ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "empty_cart"})
				return
			}
			// the cart is left intact so the user can retry
			metrics.OrderSubmitFailure()
			c.JSON(http.StatusBadGateway, gin.H{"error": "order_failed", "msg": err.Error()})
			return
		}

		// order accepted: the cart and the applied promotion are done
		cfg.Cart.Clear()
		cfg.Promos.Remove()

		c.Header("Location", "/orders/"+receipt.OrderID)
		c.JSON(http.StatusCreated, gin.H{
			"order_id":    receipt.OrderID,
			"status":      receipt.Status,
			"payment_url": receipt.PaymentURL,
		})
	})
}
