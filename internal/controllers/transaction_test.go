package controllers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/studentbudget/backend/internal/controllers"
	"github.com/studentbudget/backend/internal/models"
	"github.com/studentbudget/backend/internal/test"
)

func strPtr(s string) *string {
	return &s
}

// findCategoryByName returns a seeded default envelope for use in tests.
func (suite *TestSuiteStandard) findCategoryByName(name string) models.Category {
	var category models.Category
	suite.Require().NoError(models.DB.Where("name = ?", name).First(&category).Error)
	return category
}

func (suite *TestSuiteStandard) TestTransactionsRequireAuth() {
	recorder := test.Request(suite.T(), suite.controller, "GET", "/api/transactions", "")
	test.AssertHTTPStatus(suite.T(), http.StatusUnauthorized, &recorder)
}

func (suite *TestSuiteStandard) TestCreateTransaction() {
	header := suite.register("spender@example.com")
	groceries := suite.findCategoryByName("Groceries")

	transaction := suite.createTransaction(header, controllers.TransactionEditable{
		Type:        models.CategoryTypeExpense,
		AmountCents: 1299,
		CategoryID:  &groceries.ID,
		OccurredAt:  time.Date(2026, 8, 4, 12, 0, 0, 0, time.UTC),
		Description: strPtr("Weekly shop"),
		Metadata:    map[string]any{"store": "Aldi"},
	})

	suite.Assert().Equal(int64(1299), transaction.AmountCents)
	suite.Assert().Equal(models.CategoryTypeExpense, transaction.Type)
	suite.Require().NotNil(transaction.CategoryID)
	suite.Assert().Equal(groceries.ID, *transaction.CategoryID)
	suite.Assert().Equal("Aldi", transaction.Metadata["store"])

	// Times come back in UTC
	suite.Assert().Equal(time.UTC, transaction.OccurredAt.Location())

	diff := time.Since(transaction.CreatedAt)
	suite.Assert().LessOrEqual(diff, test.TOLERANCE)
}

func (suite *TestSuiteStandard) TestCreateTransactionDefaultsDate() {
	header := suite.register("nodate@example.com")

	transaction := suite.createTransaction(header, controllers.TransactionEditable{
		Type:        models.CategoryTypeExpense,
		AmountCents: 100,
	})

	diff := time.Since(transaction.OccurredAt)
	suite.Assert().LessOrEqual(diff, test.TOLERANCE)
}

func (suite *TestSuiteStandard) TestCreateTransactionValidation() {
	header := suite.register("txinvalid@example.com")

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"bad type", `{"type": "donation", "amount_cents": 100}`, http.StatusUnprocessableEntity},
		{"zero amount", `{"type": "expense", "amount_cents": 0}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"type": "expense", "amount_cents": -50}`, http.StatusUnprocessableEntity},
		{"future date", fmt.Sprintf(`{"type": "expense", "amount_cents": 100, "occurred_at": %q}`, time.Now().UTC().AddDate(0, 0, 1).Format(time.RFC3339)), http.StatusBadRequest},
		{"unknown category", `{"type": "expense", "amount_cents": 100, "category_id": "deadbeef-dead-beef-dead-beefdeadbeef"}`, http.StatusNotFound},
		{"empty body", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.T(), suite.controller, "POST", "/api/transactions", tt.body, header)
		test.AssertHTTPStatus(suite.T(), tt.status, &recorder)
	}
}

func (suite *TestSuiteStandard) TestCreateTransactionTypeMismatch() {
	header := suite.register("mismatch@example.com")
	salary := suite.findCategoryByName("Salary")

	body := fmt.Sprintf(`{"type": "expense", "amount_cents": 100, "category_id": %q}`, salary.ID)
	recorder := test.Request(suite.T(), suite.controller, "POST", "/api/transactions", body, header)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
	suite.Assert().Equal("Transaction type must match the category type", test.DecodeError(suite.T(), recorder.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestTransactionIsolation() {
	headerA := suite.register("payer@example.com")
	headerB := suite.register("peeker@example.com")

	transaction := suite.createTransaction(headerA, controllers.TransactionEditable{
		Type:        models.CategoryTypeExpense,
		AmountCents: 1500,
	})

	recorder := test.Request(suite.T(), suite.controller, "GET", fmt.Sprintf("/api/transactions/%s", transaction.ID), "", headerB)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)

	recorder = test.Request(suite.T(), suite.controller, "GET", "/api/transactions", "", headerB)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response controllers.TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Empty(response.Items)
	suite.Assert().Equal(int64(0), response.Total)
}

func (suite *TestSuiteStandard) TestGetTransactionsPagination() {
	header := suite.register("pager@example.com")

	for i := 1; i <= 7; i++ {
		_ = suite.createTransaction(header, controllers.TransactionEditable{
			Type:        models.CategoryTypeExpense,
			AmountCents: int64(i * 100),
			OccurredAt:  time.Date(2026, 8, i, 12, 0, 0, 0, time.UTC),
		})
	}

	recorder := test.Request(suite.T(), suite.controller, "GET", "/api/transactions?limit=3&page=2", "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response controllers.TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Assert().Len(response.Items, 3)
	suite.Assert().Equal(2, response.Page)
	suite.Assert().Equal(3, response.Limit)
	suite.Assert().Equal(int64(7), response.Total)
	suite.Assert().Equal(int64(3), response.TotalPages)

	// Default sort is occurred_at descending, so page 2 of 3 holds days 4 to 2
	suite.Assert().Equal(int64(400), response.Items[0].AmountCents)

	// A page past the end is valid and empty
	recorder = test.Request(suite.T(), suite.controller, "GET", "/api/transactions?limit=3&page=4", "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Empty(response.Items)
	suite.Assert().Equal(int64(7), response.Total)

	recorder = test.Request(suite.T(), suite.controller, "GET", "/api/transactions?limit=500", "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
}

func (suite *TestSuiteStandard) TestGetTransactionsFilters() {
	header := suite.register("filterer@example.com")
	groceries := suite.findCategoryByName("Groceries")
	salary := suite.findCategoryByName("Salary")

	_ = suite.createTransaction(header, controllers.TransactionEditable{
		Type: models.CategoryTypeIncome, AmountCents: 120000, CategoryID: &salary.ID,
		OccurredAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC), Description: strPtr("August wages"),
	})
	_ = suite.createTransaction(header, controllers.TransactionEditable{
		Type: models.CategoryTypeExpense, AmountCents: 4200, CategoryID: &groceries.ID,
		OccurredAt: time.Date(2026, 8, 3, 17, 30, 0, 0, time.UTC), Description: strPtr("Groceries run"),
	})
	_ = suite.createTransaction(header, controllers.TransactionEditable{
		Type: models.CategoryTypeExpense, AmountCents: 900,
		OccurredAt: time.Date(2026, 7, 20, 12, 0, 0, 0, time.UTC), Description: strPtr("Bus ticket"),
	})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"by type", "type=expense", 2},
		{"by category", "category_id=" + groceries.ID.String(), 1},
		{"by date range", "start_date=2026-08-01&end_date=2026-08-31", 2},
		{"by min amount", "min_amount=4000", 2},
		{"by max amount", "max_amount=1000", 1},
		{"by search", "search=groceries", 1},
		{"combined", "type=expense&min_amount=1000", 1},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.T(), suite.controller, "GET", "/api/transactions?"+tt.query, "", header)
		test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

		var response controllers.TransactionListResponse
		test.DecodeResponse(suite.T(), &recorder, &response)
		suite.Assert().Len(response.Items, tt.count, "Wrong number of items for %s", tt.name)
	}
}

func (suite *TestSuiteStandard) TestGetTransactionsSorting() {
	header := suite.register("sorter@example.com")

	for i, cents := range []int64{300, 100, 200} {
		_ = suite.createTransaction(header, controllers.TransactionEditable{
			Type:        models.CategoryTypeExpense,
			AmountCents: cents,
			OccurredAt:  time.Date(2026, 8, i+1, 12, 0, 0, 0, time.UTC),
		})
	}

	recorder := test.Request(suite.T(), suite.controller, "GET", "/api/transactions?sort_by=amount_cents&sort_order=asc", "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response controllers.TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Items, 3)
	suite.Assert().Equal(int64(100), response.Items[0].AmountCents)
	suite.Assert().Equal(int64(300), response.Items[2].AmountCents)

	recorder = test.Request(suite.T(), suite.controller, "GET", "/api/transactions?sort_by=user_id", "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)

	recorder = test.Request(suite.T(), suite.controller, "GET", "/api/transactions?sort_order=upside-down", "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
}

func (suite *TestSuiteStandard) TestUpdateTransaction() {
	header := suite.register("updater@example.com")

	transaction := suite.createTransaction(header, controllers.TransactionEditable{
		Type:        models.CategoryTypeExpense,
		AmountCents: 1000,
		Description: strPtr("Initial"),
	})

	body := fmt.Sprintf(`{"type": "expense", "amount_cents": 1250, "occurred_at": %q}`, time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC).Format(time.RFC3339))
	recorder := test.Request(suite.T(), suite.controller, "PUT", fmt.Sprintf("/api/transactions/%s", transaction.ID), body, header)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var updated models.Transaction
	test.DecodeResponse(suite.T(), &recorder, &updated)
	suite.Assert().Equal(int64(1250), updated.AmountCents)

	// The update is a full replacement, the description is gone
	suite.Assert().Nil(updated.Description)
}

func (suite *TestSuiteStandard) TestDeleteTransaction() {
	header := suite.register("deleter@example.com")

	transaction := suite.createTransaction(header, controllers.TransactionEditable{
		Type:        models.CategoryTypeExpense,
		AmountCents: 100,
	})

	recorder := test.Request(suite.T(), suite.controller, "DELETE", fmt.Sprintf("/api/transactions/%s", transaction.ID), "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)

	recorder = test.Request(suite.T(), suite.controller, "GET", fmt.Sprintf("/api/transactions/%s", transaction.ID), "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}

func (suite *TestSuiteStandard) TestTransactionMethodNotAllowed() {
	header := suite.register("methods@example.com")

	recorder := test.Request(suite.T(), suite.controller, "PATCH", "/api/transactions", "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusMethodNotAllowed, &recorder)
}
