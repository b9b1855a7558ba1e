package controllers

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studentbudget/backend/internal/models"
)

// TransactionEditable are the fields of a Transaction that clients can set.
type TransactionEditable struct {
	Type        models.CategoryType `json:"type" example:"expense"`
	AmountCents int64               `json:"amount_cents" example:"1299" minimum:"1"`
	CategoryID  *uuid.UUID          `json:"category_id" example:"44444444-4444-4444-4444-444444444444"`
	OccurredAt  time.Time           `json:"occurred_at" example:"2024-11-04T00:00:00Z"`
	Description *string             `json:"description" example:"Calculus II textbook"`
	ReceiptURL  *string             `json:"receipt_url"`
	Metadata    map[string]any      `json:"metadata"`
}

// model returns the database resource for the API representation of the
// editable fields.
func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		Type:        editable.Type,
		AmountCents: editable.AmountCents,
		CategoryID:  editable.CategoryID,
		OccurredAt:  editable.OccurredAt,
		Description: editable.Description,
		ReceiptURL:  editable.ReceiptURL,
		Metadata:    editable.Metadata,
	}
}

// TransactionQueryFilter are the query string parameters for the
// transaction list. Dates are bound as strings since clients send both
// full timestamps and plain dates.
type TransactionQueryFilter struct {
	Type       string `form:"type"`        // Filter by transaction type
	CategoryID string `form:"category_id"` // Filter by category
	StartDate  string `form:"start_date"`  // Transactions at or after this date
	EndDate    string `form:"end_date"`    // Transactions at or before this date
	MinAmount  *int64 `form:"min_amount"`  // Amount in cents at least this
	MaxAmount  *int64 `form:"max_amount"`  // Amount in cents at most this
	Search     string `form:"search"`      // Description contains this string
	SortBy     string `form:"sort_by"`     // Field to sort by. Defaults to occurred_at
	SortOrder  string `form:"sort_order"`  // asc or desc. Defaults to desc
	Page       int    `form:"page"`        // Page number, 1-indexed
	Limit      int    `form:"limit"`       // Items per page, at most 100. Defaults to 50
}

// TransactionListResponse is the paginated transaction list.
type TransactionListResponse struct {
	Items      []models.Transaction `json:"items"`
	Page       int                  `json:"page" example:"1"`
	Limit      int                  `json:"limit" example:"50"`
	Total      int64                `json:"total" example:"101"`
	TotalPages int64                `json:"total_pages" example:"3"`
}

// parseDate accepts RFC3339 timestamps and plain dates.
func parseDate(value string) (time.Time, error) {
	for _, pattern := range []string{time.RFC3339, "2006-01-02"} {
		t, err := time.Parse(pattern, value)
		if err == nil {
			return t.In(time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse %q as a date", value)
}
