package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studentbudget/backend/internal/httperrors"
	"github.com/studentbudget/backend/internal/models"
	"gorm.io/gorm"
)

// RequireAuth verifies the bearer token of the request and loads the
// current user into the context. Requests without a valid token are
// rejected with 401 before any handler runs.
func (co Controller) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("WWW-Authenticate", "Bearer")

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			httperrors.New(c, http.StatusUnauthorized, "Not authenticated")
			c.Abort()
			return
		}

		userID, err := co.Issuer.VerifyAccessToken(token)
		if err != nil {
			httperrors.New(c, http.StatusUnauthorized, "Could not validate credentials")
			c.Abort()
			return
		}

		var user models.User
		err = models.DB.First(&user, "id = ?", userID).Error
		if err != nil {
			// The token is valid but the account is gone
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperrors.New(c, http.StatusUnauthorized, "User not found")
			} else {
				httperrors.Handler(c, err)
			}
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}
