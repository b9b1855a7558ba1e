// Package controllers implements the HTTP handlers for the API.
package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studentbudget/backend/internal/auth"
	"github.com/studentbudget/backend/internal/models"
	"gorm.io/gorm"
)

// Controller holds the dependencies of the HTTP handlers.
type Controller struct {
	Issuer           *auth.TokenIssuer
	ResetTokenExpiry time.Duration
}

// URIID is the URI binding for resource detail routes.
type URIID struct {
	ID uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// userContextKey is the gin context key the authentication middleware
// stores the current user under.
const userContextKey = "currentUser"

// currentUser returns the authenticated user for the request. It must only
// be called on routes behind RequireAuth.
func currentUser(c *gin.Context) models.User {
	return c.MustGet(userContextKey).(models.User)
}

// ownedTransactions scopes a transaction query to the rows the user may
// see. Admins see all transactions.
func ownedTransactions(user models.User) *gorm.DB {
	q := models.DB.Model(&models.Transaction{})
	if !user.IsAdmin() {
		q = q.Where("transactions.user_id = ?", user.ID)
	}

	return q
}
