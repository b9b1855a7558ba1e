package client

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// AggregateParams parametrize the aggregates endpoint.
type AggregateParams struct {
	GroupBy     string // "category" or "period"
	Period      string // "weekly", "monthly" or "yearly"
	StartDate   *time.Time
	EndDate     *time.Time
	Type        string
	CategoryIDs []uuid.UUID
}

func (p AggregateParams) query() string {
	q := NewQuery().
		Set("group_by", p.GroupBy).
		Set("period", p.Period).
		Set("type", p.Type).
		Set("category_ids[]", p.CategoryIDs)

	if p.StartDate != nil {
		q.Set("start_date", p.StartDate.Format("2006-01-02"))
	}
	if p.EndDate != nil {
		q.Set("end_date", p.EndDate.Format("2006-01-02"))
	}

	return q.Encode()
}

// Aggregates returns transaction totals grouped by category or by
// time period.
func (c *Client) Aggregates(ctx context.Context, params AggregateParams) (AggregateResult, error) {
	var result AggregateResult
	err := c.Do(ctx, http.MethodGet, "/api/transactions/aggregates"+params.query(), nil, &result)
	return result, err
}

// SpendingByCategory is the per-envelope breakdown used for pie charts.
// It always groups by category, the other parameters pass through.
func (c *Client) SpendingByCategory(ctx context.Context, params AggregateParams) (AggregateResult, error) {
	params.GroupBy = "category"
	return c.Aggregates(ctx, params)
}

// TrendsByPeriod is the spending-over-time series used for line charts.
// It always groups by period and defaults to weekly granularity.
func (c *Client) TrendsByPeriod(ctx context.Context, params AggregateParams) (AggregateResult, error) {
	params.GroupBy = "period"
	if params.Period == "" {
		params.Period = "weekly"
	}
	return c.Aggregates(ctx, params)
}
