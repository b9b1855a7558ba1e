package controllers

// AggregateQueryFilter are the query string parameters for the aggregates
// endpoint. category_ids[] may be passed multiple times.
type AggregateQueryFilter struct {
	GroupBy     string   `form:"group_by"` // "category" or "period". Defaults to category
	Period      string   `form:"period"`   // "weekly", "monthly" or "yearly". Defaults to monthly
	StartDate   string   `form:"start_date"`
	EndDate     string   `form:"end_date"`
	Type        string   `form:"type"`
	CategoryIDs []string `form:"category_ids[]"`
	CategoryID  string   `form:"category_id"` // single-ID spelling, kept for older clients
}

// Aggregate is one row of a grouped total. Either the category fields or
// the period fields are set, depending on the grouping mode.
type Aggregate struct {
	CategoryID   *string `json:"category_id,omitempty"`
	CategoryName *string `json:"category_name,omitempty"`
	PeriodStart  *string `json:"period_start,omitempty"`
	PeriodEnd    *string `json:"period_end,omitempty"`
	Type         string  `json:"type"`
	TotalCents   int64   `json:"total_cents"`
	Count        int64   `json:"count"`
}

// AggregateResponse is the response body of the aggregates endpoint.
type AggregateResponse struct {
	GroupBy    string      `json:"group_by" example:"category"`
	Period     string      `json:"period" example:"monthly"`
	Aggregates []Aggregate `json:"aggregates"`
}
