package client

import (
	"time"

	"github.com/google/uuid"
)

// User is a user profile as the API returns it.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	AvatarURL *string   `json:"avatar_url"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenResponse is returned by login and registration.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Category is a budget envelope.
type Category struct {
	ID                uuid.UUID  `json:"id"`
	UserID            *uuid.UUID `json:"user_id"`
	Name              string     `json:"name"`
	Type              string     `json:"type"`
	MonthlyLimitCents *int64     `json:"monthly_limit_cents"`
	IsDefault         bool       `json:"is_default"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CategoryData are the writable fields of a category.
type CategoryData struct {
	Name              string `json:"name"`
	Type              string `json:"type"`
	MonthlyLimitCents *int64 `json:"monthly_limit_cents,omitempty"`
	IsDefault         bool   `json:"is_default"`
}

// Transaction is a single income or expense entry. Amounts are integer
// cents everywhere, the API never sees floating point money.
type Transaction struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	CategoryID  *uuid.UUID     `json:"category_id"`
	Type        string         `json:"type"`
	AmountCents int64          `json:"amount_cents"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Description *string        `json:"description"`
	ReceiptURL  *string        `json:"receipt_url"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TransactionData are the writable fields of a transaction.
type TransactionData struct {
	Type        string         `json:"type"`
	AmountCents int64          `json:"amount_cents"`
	CategoryID  *uuid.UUID     `json:"category_id,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at,omitzero"`
	Description *string        `json:"description,omitempty"`
	ReceiptURL  *string        `json:"receipt_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// TransactionList is one page of the transaction list.
type TransactionList struct {
	Items      []Transaction `json:"items"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	Total      int64         `json:"total"`
	TotalPages int64         `json:"total_pages"`
}

// Aggregate is one row of a grouped total. The category fields are set
// when grouping by category, the period fields when grouping by period.
type Aggregate struct {
	CategoryID   *string `json:"category_id"`
	CategoryName *string `json:"category_name"`
	PeriodStart  *string `json:"period_start"`
	PeriodEnd    *string `json:"period_end"`
	Type         string  `json:"type"`
	TotalCents   int64   `json:"total_cents"`
	Count        int64   `json:"count"`
}

// AggregateResult is the response of the aggregates endpoint.
type AggregateResult struct {
	GroupBy    string      `json:"group_by"`
	Period     string      `json:"period"`
	Aggregates []Aggregate `json:"aggregates"`
}

// Message is a plain confirmation response.
type Message struct {
	Message string `json:"message"`
}
