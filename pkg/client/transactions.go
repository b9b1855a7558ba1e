package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// TransactionFilters narrow the transaction list. Zero values mean "not
// set", except the numeric pointers where nil means "not set" so that a
// filter of 0 cents stays expressible.
type TransactionFilters struct {
	Type       string
	CategoryID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	MinCents   *int64
	MaxCents   *int64
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

func (f TransactionFilters) query() string {
	q := NewQuery().
		Set("type", f.Type).
		Set("category_id", f.CategoryID).
		Set("search", f.Search).
		Set("min_amount", f.MinCents).
		Set("max_amount", f.MaxCents).
		Set("sort_by", f.SortBy).
		Set("sort_order", f.SortOrder)

	if f.StartDate != nil {
		q.Set("start_date", f.StartDate.Format("2006-01-02"))
	}
	if f.EndDate != nil {
		q.Set("end_date", f.EndDate.Format("2006-01-02"))
	}
	if f.Page > 0 {
		q.Set("page", f.Page)
	}
	if f.Limit > 0 {
		q.Set("limit", f.Limit)
	}

	return q.Encode()
}

// Transactions returns one page of the transaction list.
func (c *Client) Transactions(ctx context.Context, filters TransactionFilters) (TransactionList, error) {
	var list TransactionList
	err := c.Do(ctx, http.MethodGet, "/api/transactions"+filters.query(), nil, &list)
	return list, err
}

// Transaction returns a single transaction.
func (c *Client) Transaction(ctx context.Context, id uuid.UUID) (Transaction, error) {
	var transaction Transaction
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/transactions/%s", id), nil, &transaction)
	return transaction, err
}

// CreateTransaction records a new transaction.
func (c *Client) CreateTransaction(ctx context.Context, data TransactionData) (Transaction, error) {
	var transaction Transaction
	err := c.Do(ctx, http.MethodPost, "/api/transactions", data, &transaction)
	return transaction, err
}

// UpdateTransaction replaces a transaction. This is a full replacement,
// omitted optional fields are cleared.
func (c *Client) UpdateTransaction(ctx context.Context, id uuid.UUID, data TransactionData) (Transaction, error) {
	var transaction Transaction
	err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/api/transactions/%s", id), data, &transaction)
	return transaction, err
}

// DeleteTransaction deletes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/transactions/%s", id), nil, nil)
}
