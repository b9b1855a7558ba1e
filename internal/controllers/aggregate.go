package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studentbudget/backend/internal/httperrors"
	"github.com/studentbudget/backend/internal/models"
	"github.com/studentbudget/backend/internal/types"
	"gorm.io/gorm"
)

// Grouping expressions for the period aggregation. sqlite date functions
// truncate the occurrence timestamp to the period start; weeks start on
// Monday like the original reports did.
var periodExpressions = map[string]string{
	"weekly":  "date(transactions.occurred_at, '-' || ((CAST(strftime('%w', transactions.occurred_at) AS INTEGER) + 6) % 7) || ' days')",
	"monthly": "date(transactions.occurred_at, 'start of month')",
	"yearly":  "date(transactions.occurred_at, 'start of year')",
}

// periodEnd returns the inclusive last day of the period starting at start.
func periodEnd(period string, start time.Time) time.Time {
	switch period {
	case "weekly":
		return start.AddDate(0, 0, 6)
	case "monthly":
		return types.MonthOf(start).LastDay()
	default: // yearly
		return time.Date(start.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	}
}

// aggregateScope applies the shared filters of the aggregates endpoint.
// The bool result reports whether the filter was valid; an error response
// has been written when it is false.
func (co Controller) aggregateScope(c *gin.Context, filter AggregateQueryFilter) (*gorm.DB, bool) {
	q := ownedTransactions(currentUser(c))

	if filter.Type != "" {
		if !models.CategoryType(filter.Type).Valid() {
			httperrors.New(c, http.StatusBadRequest, "Type must be 'income' or 'expense'")
			return nil, false
		}
		q = q.Where("transactions.type = ?", filter.Type)
	}

	if filter.StartDate != "" {
		start, err := parseDate(filter.StartDate)
		if err != nil {
			httperrors.New(c, http.StatusBadRequest, err.Error())
			return nil, false
		}
		q = q.Where("transactions.occurred_at >= ?", start)
	}

	if filter.EndDate != "" {
		end, err := parseDate(filter.EndDate)
		if err != nil {
			httperrors.New(c, http.StatusBadRequest, err.Error())
			return nil, false
		}
		q = q.Where("transactions.occurred_at <= ?", end)
	}

	ids := filter.CategoryIDs
	if filter.CategoryID != "" {
		ids = append(ids, filter.CategoryID)
	}

	if len(ids) > 0 {
		parsed := make([]uuid.UUID, 0, len(ids))
		for _, raw := range ids {
			id, err := uuid.Parse(raw)
			if err != nil {
				httperrors.InvalidUUID(c)
				return nil, false
			}
			parsed = append(parsed, id)
		}
		q = q.Where("transactions.category_id IN ?", parsed)
	}

	return q, true
}

// @Summary		Aggregates
// @Description	Returns transaction totals grouped by category or by time period
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	AggregateResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Param			group_by		query	string	false	"Grouping mode: category or period"
// @Param			period			query	string	false	"Period granularity: weekly, monthly or yearly"
// @Param			start_date		query	string	false	"Transactions at and after this date"
// @Param			end_date		query	string	false	"Transactions at and before this date"
// @Param			type			query	string	false	"Filter by transaction type"
// @Param			category_ids[]	query	array	false	"Filter by category IDs"
// @Router			/api/transactions/aggregates [get]
func (co Controller) GetAggregates(c *gin.Context) {
	var filter AggregateQueryFilter
	if err := c.Bind(&filter); err != nil {
		httperrors.InvalidQueryString(c)
		return
	}

	groupBy := filter.GroupBy
	if groupBy == "" {
		groupBy = "category"
	}
	if groupBy != "category" && groupBy != "period" {
		httperrors.New(c, http.StatusBadRequest, "group_by must be 'category' or 'period'")
		return
	}

	period := filter.Period
	if period == "" {
		period = "monthly"
	}
	if _, ok := periodExpressions[period]; !ok {
		httperrors.New(c, http.StatusBadRequest, "period must be 'weekly', 'monthly' or 'yearly'")
		return
	}

	q, ok := co.aggregateScope(c, filter)
	if !ok {
		return
	}

	var aggregates []Aggregate
	var err error
	if groupBy == "category" {
		aggregates, err = categoryAggregates(q)
	} else {
		aggregates, err = periodAggregates(q, period)
	}
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, AggregateResponse{
		GroupBy:    groupBy,
		Period:     period,
		Aggregates: aggregates,
	})
}

func categoryAggregates(q *gorm.DB) ([]Aggregate, error) {
	var rows []struct {
		CategoryID *uuid.UUID
		Type       string
		TotalCents int64
		Count      int64
	}

	err := q.
		Select("transactions.category_id, transactions.type, SUM(transactions.amount_cents) AS total_cents, COUNT(transactions.id) AS count").
		Group("transactions.category_id, transactions.type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	aggregates := make([]Aggregate, 0, len(rows))
	for _, row := range rows {
		name := "Uncategorized"
		var id *string

		if row.CategoryID != nil {
			s := row.CategoryID.String()
			id = &s

			var category models.Category
			if err := models.DB.First(&category, "id = ?", *row.CategoryID).Error; err == nil {
				name = category.Name
			}
		}

		categoryName := name
		aggregates = append(aggregates, Aggregate{
			CategoryID:   id,
			CategoryName: &categoryName,
			Type:         row.Type,
			TotalCents:   row.TotalCents,
			Count:        row.Count,
		})
	}

	return aggregates, nil
}

func periodAggregates(q *gorm.DB, period string) ([]Aggregate, error) {
	var rows []struct {
		PeriodStart string
		Type        string
		TotalCents  int64
		Count       int64
	}

	expr := periodExpressions[period]
	err := q.
		Select(expr + " AS period_start, transactions.type, SUM(transactions.amount_cents) AS total_cents, COUNT(transactions.id) AS count").
		Group("period_start, transactions.type").
		Order("period_start").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	aggregates := make([]Aggregate, 0, len(rows))
	for _, row := range rows {
		start, err := time.Parse("2006-01-02", row.PeriodStart)
		if err != nil {
			return nil, err
		}

		startStr := start.Format(time.RFC3339)
		endStr := periodEnd(period, start).Format(time.RFC3339)

		aggregates = append(aggregates, Aggregate{
			PeriodStart: &startStr,
			PeriodEnd:   &endStr,
			Type:        row.Type,
			TotalCents:  row.TotalCents,
			Count:       row.Count,
		})
	}

	return aggregates, nil
}
