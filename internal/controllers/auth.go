package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/studentbudget/backend/internal/auth"
	"github.com/studentbudget/backend/internal/httperrors"
	"github.com/studentbudget/backend/internal/httputil"
	"github.com/studentbudget/backend/internal/models"
	"gorm.io/gorm"
)

// RegisterAuthRoutes registers the authentication routes with the
// RouterGroup that is passed. The routes are registered twice, once under
// /api and once under /api/auth, since both spellings are in use by
// clients.
func (co Controller) RegisterAuthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/register", httputil.OptionsPost)
	r.POST("/register", co.Register)
	r.OPTIONS("/login", httputil.OptionsPost)
	r.POST("/login", co.Login)
	r.OPTIONS("/password_reset", httputil.OptionsPost)
	r.POST("/password_reset", co.RequestPasswordReset)
	r.OPTIONS("/password_reset/confirm", httputil.OptionsPost)
	r.POST("/password_reset/confirm", co.ConfirmPasswordReset)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", co.Register)
		authGroup.POST("/login", co.Login)
		authGroup.POST("/forgot-password", co.RequestPasswordReset)
		authGroup.POST("/reset-password", co.ConfirmPasswordReset)
	}

	r.GET("/me", co.RequireAuth(), co.Me)
}

// validateRegistration returns the field-level validation errors for a
// registration request.
func validateRegistration(body RegisterRequest) []httperrors.ValidationError {
	var errs []httperrors.ValidationError

	email := strings.TrimSpace(body.Email)
	if email == "" || !strings.Contains(email, "@") {
		errs = append(errs, httperrors.ValidationError{
			Loc: []string{"body", "email"},
			Msg: "value is not a valid email address",
		})
	}

	if len(body.Password) < 8 {
		errs = append(errs, httperrors.ValidationError{
			Loc: []string{"body", "password"},
			Msg: "ensure this value has at least 8 characters",
		})
	}

	return errs
}

// @Summary		Register
// @Description	Registers a new user account and returns an access token
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		201	{object}	TokenResponse
// @Failure		409	{object}	httperrors.HTTPError
// @Failure		422	{object}	httperrors.HTTPValidationError
// @Param			body	body	RegisterRequest	true	"Registration data"
// @Router			/api/register [post]
func (co Controller) Register(c *gin.Context) {
	var body RegisterRequest
	if err := httputil.BindData(c, &body); err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	if errs := validateRegistration(body); len(errs) > 0 {
		httperrors.Validation(c, errs...)
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	var count int64
	err := models.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	if count > 0 {
		httperrors.New(c, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		Role:         models.RoleStudent,
	}
	err = models.DB.Create(&user).Error
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	token, expiresIn, err := co.Issuer.CreateAccessToken(user.ID)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
	})
}

// @Summary		Login
// @Description	Authenticates a user and returns an access token
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200	{object}	TokenResponse
// @Failure		401	{object}	httperrors.HTTPError
// @Param			body	body	LoginRequest	true	"Credentials"
// @Router			/api/login [post]
func (co Controller) Login(c *gin.Context) {
	var body LoginRequest
	if err := httputil.BindData(c, &body); err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	err := models.DB.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(body.Email))).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		httperrors.Handler(c, err)
		return
	}

	// Same response for an unknown email and a wrong password
	if errors.Is(err, gorm.ErrRecordNotFound) || !auth.VerifyPassword(body.Password, user.PasswordHash) {
		httperrors.New(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expiresIn, err := co.Issuer.CreateAccessToken(user.ID)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
	})
}

// @Summary		Current user
// @Description	Returns the profile of the authenticated user
// @Tags			Auth
// @Produce		json
// @Success		200	{object}	models.User
// @Failure		401	{object}	httperrors.HTTPError
// @Router			/api/me [get]
func (co Controller) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// @Summary		Request password reset
// @Description	Requests a password reset token. Always returns a confirmation, regardless of whether the email exists
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200	{object}	MessageResponse
// @Param			body	body	PasswordResetRequest	true	"Email"
// @Router			/api/password_reset [post]
func (co Controller) RequestPasswordReset(c *gin.Context) {
	var body PasswordResetRequest
	if err := httputil.BindData(c, &body); err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	// The response must not leak whether an account exists
	response := MessageResponse{Message: "If the email exists, a password reset link has been sent"}

	var user models.User
	err := models.DB.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(body.Email))).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Msgf("%T: %v", err, err.Error())
		}
		c.JSON(http.StatusOK, response)
		return
	}

	raw, hash, err := auth.NewResetToken()
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	reset := models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().In(time.UTC).Add(co.ResetTokenExpiry),
	}
	if err := models.DB.Create(&reset).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	// There is no mailer. The token is logged so that an operator can
	// relay it; a mail integration would hook in here.
	log.Info().Str("email", user.Email).Str("token", raw).Msg("password reset requested")

	c.JSON(http.StatusOK, response)
}

// @Summary		Confirm password reset
// @Description	Redeems a password reset token and sets a new password
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200	{object}	MessageResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		422	{object}	httperrors.HTTPValidationError
// @Param			body	body	PasswordResetConfirm	true	"Token and new password"
// @Router			/api/password_reset/confirm [post]
func (co Controller) ConfirmPasswordReset(c *gin.Context) {
	var body PasswordResetConfirm
	if err := httputil.BindData(c, &body); err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	if len(body.NewPassword) < 8 {
		httperrors.Validation(c, httperrors.ValidationError{
			Loc: []string{"body", "new_password"},
			Msg: "ensure this value has at least 8 characters",
		})
		return
	}

	var reset models.PasswordResetToken
	err := models.DB.First(&reset, "token_hash = ?", auth.HashResetToken(body.Token)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperrors.New(c, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		httperrors.Handler(c, err)
		return
	}

	if !reset.Usable(time.Now().In(time.UTC)) {
		httperrors.New(c, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}

	hash, err := auth.HashPassword(body.NewPassword)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).Update("password_hash", hash).Error; err != nil {
			return err
		}

		return tx.Model(&reset).Update("used", true).Error
	})
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password has been reset"})
}
