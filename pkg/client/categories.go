package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Categories lists the envelopes visible to the user. categoryType
// filters by "income" or "expense", an empty string returns all.
func (c *Client) Categories(ctx context.Context, categoryType string) ([]Category, error) {
	query := NewQuery().Set("type", categoryType).Encode()

	var categories []Category
	err := c.Do(ctx, http.MethodGet, "/api/categories"+query, nil, &categories)
	return categories, err
}

// Category returns a single envelope.
func (c *Client) Category(ctx context.Context, id uuid.UUID) (Category, error) {
	var category Category
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/categories/%s", id), nil, &category)
	return category, err
}

// CreateCategory creates a new envelope.
func (c *Client) CreateCategory(ctx context.Context, data CategoryData) (Category, error) {
	var category Category
	err := c.Do(ctx, http.MethodPost, "/api/categories", data, &category)
	return category, err
}

// UpdateCategory replaces the writable fields of an envelope.
func (c *Client) UpdateCategory(ctx context.Context, id uuid.UUID, data CategoryData) (Category, error) {
	var category Category
	err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/api/categories/%s", id), data, &category)
	return category, err
}

// DeleteCategory deletes an envelope. The server refuses to delete
// default envelopes and envelopes that transactions still reference.
func (c *Client) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/categories/%s", id), nil, nil)
}
