package controllers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/studentbudget/backend/internal/controllers"
	"github.com/studentbudget/backend/internal/models"
	"github.com/studentbudget/backend/internal/test"
)

// seedSpending creates a deterministic set of transactions for the
// aggregation tests: two groceries purchases and one restaurant visit in
// August 2026, plus salary income, plus a July purchase.
func (suite *TestSuiteStandard) seedSpending(header map[string]string) (groceries, eatingOut models.Category) {
	groceries = suite.findCategoryByName("Groceries")
	eatingOut = suite.findCategoryByName("Eating Out")
	salary := suite.findCategoryByName("Salary")

	_ = suite.createTransaction(header, controllers.TransactionEditable{
		Type: models.CategoryTypeExpense, AmountCents: 4200, CategoryID: &groceries.ID,
		OccurredAt: time.Date(2026, 8, 3, 17, 0, 0, 0, time.UTC),
	})
	_ = suite.createTransaction(header, controllers.TransactionEditable{
		Type: models.CategoryTypeExpense, AmountCents: 3100, CategoryID: &groceries.ID,
		OccurredAt: time.Date(2026, 8, 14, 11, 0, 0, 0, time.UTC),
	})
	_ = suite.createTransaction(header, controllers.TransactionEditable{
		Type: models.CategoryTypeExpense, AmountCents: 1850, CategoryID: &eatingOut.ID,
		OccurredAt: time.Date(2026, 8, 14, 20, 0, 0, 0, time.UTC),
	})
	_ = suite.createTransaction(header, controllers.TransactionEditable{
		Type: models.CategoryTypeIncome, AmountCents: 120000, CategoryID: &salary.ID,
		OccurredAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	})
	_ = suite.createTransaction(header, controllers.TransactionEditable{
		Type: models.CategoryTypeExpense, AmountCents: 999, CategoryID: &groceries.ID,
		OccurredAt: time.Date(2026, 7, 28, 12, 0, 0, 0, time.UTC),
	})

	return groceries, eatingOut
}

func (suite *TestSuiteStandard) aggregates(header map[string]string, query string) controllers.AggregateResponse {
	recorder := test.Request(suite.T(), suite.controller, "GET", "/api/transactions/aggregates?"+query, "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response controllers.AggregateResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	return response
}

func (suite *TestSuiteStandard) TestAggregatesByCategory() {
	header := suite.register("bycategory@example.com")
	groceries, _ := suite.seedSpending(header)

	response := suite.aggregates(header, "group_by=category&type=expense&start_date=2026-08-01&end_date=2026-08-31")

	suite.Assert().Equal("category", response.GroupBy)
	suite.Require().Len(response.Aggregates, 2)

	byName := make(map[string]controllers.Aggregate)
	for _, a := range response.Aggregates {
		suite.Require().NotNil(a.CategoryName)
		byName[*a.CategoryName] = a
	}

	suite.Require().Contains(byName, "Groceries")
	suite.Assert().Equal(int64(7300), byName["Groceries"].TotalCents)
	suite.Assert().Equal(int64(2), byName["Groceries"].Count)
	suite.Require().NotNil(byName["Groceries"].CategoryID)
	suite.Assert().Equal(groceries.ID.String(), *byName["Groceries"].CategoryID)

	suite.Require().Contains(byName, "Eating Out")
	suite.Assert().Equal(int64(1850), byName["Eating Out"].TotalCents)
}

func (suite *TestSuiteStandard) TestAggregatesUncategorized() {
	header := suite.register("uncategorized@example.com")

	_ = suite.createTransaction(header, controllers.TransactionEditable{
		Type: models.CategoryTypeExpense, AmountCents: 500,
		OccurredAt: time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC),
	})

	response := suite.aggregates(header, "group_by=category")
	suite.Require().Len(response.Aggregates, 1)
	suite.Assert().Nil(response.Aggregates[0].CategoryID)
	suite.Require().NotNil(response.Aggregates[0].CategoryName)
	suite.Assert().Equal("Uncategorized", *response.Aggregates[0].CategoryName)
}

func (suite *TestSuiteStandard) TestAggregatesByMonth() {
	header := suite.register("bymonth@example.com")
	_, _ = suite.seedSpending(header)

	response := suite.aggregates(header, "group_by=period&period=monthly&type=expense")

	suite.Assert().Equal("period", response.GroupBy)
	suite.Assert().Equal("monthly", response.Period)
	suite.Require().Len(response.Aggregates, 2)

	// Rows are ordered by period start
	july := response.Aggregates[0]
	suite.Require().NotNil(july.PeriodStart)
	suite.Assert().Equal("2026-07-01T00:00:00Z", *july.PeriodStart)
	suite.Require().NotNil(july.PeriodEnd)
	suite.Assert().Equal("2026-07-31T00:00:00Z", *july.PeriodEnd)
	suite.Assert().Equal(int64(999), july.TotalCents)

	august := response.Aggregates[1]
	suite.Assert().Equal(int64(9150), august.TotalCents)
	suite.Assert().Equal(int64(3), august.Count)
}

func (suite *TestSuiteStandard) TestAggregatesByWeek() {
	header := suite.register("byweek@example.com")
	_, _ = suite.seedSpending(header)

	response := suite.aggregates(header, "group_by=period&period=weekly&type=expense&start_date=2026-08-01")

	// 2026-08-03 is a Monday, 2026-08-14 is a Friday in the week of the 10th
	suite.Require().Len(response.Aggregates, 2)

	first := response.Aggregates[0]
	suite.Require().NotNil(first.PeriodStart)
	suite.Assert().Equal("2026-08-03T00:00:00Z", *first.PeriodStart)
	suite.Require().NotNil(first.PeriodEnd)
	suite.Assert().Equal("2026-08-09T00:00:00Z", *first.PeriodEnd)
	suite.Assert().Equal(int64(4200), first.TotalCents)

	second := response.Aggregates[1]
	suite.Assert().Equal("2026-08-10T00:00:00Z", *second.PeriodStart)
	suite.Assert().Equal(int64(4950), second.TotalCents)
	suite.Assert().Equal(int64(2), second.Count)
}

func (suite *TestSuiteStandard) TestAggregatesByYear() {
	header := suite.register("byyear@example.com")
	_, _ = suite.seedSpending(header)

	response := suite.aggregates(header, "group_by=period&period=yearly&type=expense")

	suite.Require().Len(response.Aggregates, 1)
	suite.Assert().Equal("2026-01-01T00:00:00Z", *response.Aggregates[0].PeriodStart)
	suite.Assert().Equal("2026-12-31T00:00:00Z", *response.Aggregates[0].PeriodEnd)
	suite.Assert().Equal(int64(10149), response.Aggregates[0].TotalCents)
}

func (suite *TestSuiteStandard) TestAggregatesCategoryFilter() {
	header := suite.register("catfilter@example.com")
	groceries, eatingOut := suite.seedSpending(header)

	query := fmt.Sprintf("group_by=category&category_ids[]=%s&category_ids[]=%s", groceries.ID, eatingOut.ID)
	response := suite.aggregates(header, query)
	suite.Assert().Len(response.Aggregates, 2)

	// The single-ID spelling works as well
	response = suite.aggregates(header, "group_by=category&category_id="+groceries.ID.String())
	suite.Require().Len(response.Aggregates, 1)
	suite.Assert().Equal(int64(8299), response.Aggregates[0].TotalCents)
}

func (suite *TestSuiteStandard) TestAggregatesDefaults() {
	header := suite.register("aggdefaults@example.com")

	response := suite.aggregates(header, "")
	suite.Assert().Equal("category", response.GroupBy)
	suite.Assert().Equal("monthly", response.Period)
	suite.Assert().Empty(response.Aggregates)
}

func (suite *TestSuiteStandard) TestAggregatesInvalid() {
	header := suite.register("agginvalid@example.com")

	tests := []string{
		"group_by=color",
		"group_by=period&period=daily",
		"start_date=yesterday",
		"category_ids[]=not-a-uuid",
		"type=donation",
	}

	for _, query := range tests {
		recorder := test.Request(suite.T(), suite.controller, "GET", "/api/transactions/aggregates?"+query, "", header)
		test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
	}
}
