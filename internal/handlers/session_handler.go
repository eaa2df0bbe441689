package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fragrancedemumu/storefront-go/internal/session"
	"github.com/fragrancedemumu/storefront-go/internal/validation"
)

// RegisterSessionRoutes registers login/logout. Login triggers the server
// cart sync through the session manager's transition listeners.
func RegisterSessionRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.POST("/session/login", func(c *gin.Context) {
		var req validation.LoginRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		cfg.Sessions.Login(session.User{ID: req.UserID, Email: req.Email})
		c.JSON(http.StatusOK, gin.H{"user_id": req.UserID})
	})

	r.POST("/session/logout", func(c *gin.Context) {
		cfg.Sessions.Logout()
		c.Status(http.StatusNoContent)
	})
}
