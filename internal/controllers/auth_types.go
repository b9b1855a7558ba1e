package controllers

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Email     string  `json:"email" example:"courage@example.com"`
	Password  string  `json:"password" example:"hunter2hunter2"`
	FirstName *string `json:"first_name" example:"Courage"`
	LastName  *string `json:"last_name" example:"Tikum"`
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" example:"courage@example.com"`
	Password string `json:"password" example:"hunter2hunter2"`
}

// TokenResponse is the response body for successful registration and login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"3600"`
}

// PasswordResetRequest is the request body for requesting a password reset.
type PasswordResetRequest struct {
	Email string `json:"email" example:"courage@example.com"`
}

// PasswordResetConfirm is the request body for confirming a password reset.
type PasswordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// MessageResponse is a generic confirmation response.
type MessageResponse struct {
	Message string `json:"message" example:"If the email exists, a password reset link has been sent"`
}
