package controllers_test

import (
	"fmt"
	"net/http"

	"github.com/studentbudget/backend/internal/controllers"
	"github.com/studentbudget/backend/internal/models"
	"github.com/studentbudget/backend/internal/test"
)

func centsPtr(c int64) *int64 {
	return &c
}

func (suite *TestSuiteStandard) TestCategoriesRequireAuth() {
	recorder := test.Request(suite.T(), suite.controller, "GET", "/api/categories", "")
	test.AssertHTTPStatus(suite.T(), http.StatusUnauthorized, &recorder)
}

func (suite *TestSuiteStandard) TestGetCategoriesDefaults() {
	header := suite.register("defaults@example.com")

	recorder := test.Request(suite.T(), suite.controller, "GET", "/api/categories", "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var categories []models.Category
	test.DecodeResponse(suite.T(), &recorder, &categories)

	suite.Require().Len(categories, 10)
	for _, category := range categories {
		suite.Assert().True(category.IsDefault, "seeded envelope %s is not marked as default", category.Name)
		suite.Assert().Nil(category.UserID)
	}

	// Defaults come first, sorted by name
	suite.Assert().Equal("Allowance", categories[0].Name)
}

func (suite *TestSuiteStandard) TestGetCategoriesTypeFilter() {
	header := suite.register("filter@example.com")

	recorder := test.Request(suite.T(), suite.controller, "GET", "/api/categories?type=income", "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var categories []models.Category
	test.DecodeResponse(suite.T(), &recorder, &categories)

	suite.Require().NotEmpty(categories)
	for _, category := range categories {
		suite.Assert().Equal(models.CategoryTypeIncome, category.Type)
	}

	recorder = test.Request(suite.T(), suite.controller, "GET", "/api/categories?type=snack", "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
}

func (suite *TestSuiteStandard) TestCreateCategory() {
	header := suite.register("create@example.com")

	category := suite.createCategory(header, controllers.CategoryEditable{
		Name:              "Textbooks",
		Type:              models.CategoryTypeExpense,
		MonthlyLimitCents: centsPtr(25000),
	})

	suite.Assert().Equal("Textbooks", category.Name)
	suite.Assert().False(category.IsDefault)
	suite.Require().NotNil(category.UserID)
	suite.Require().NotNil(category.MonthlyLimitCents)
	suite.Assert().Equal(int64(25000), *category.MonthlyLimitCents)
}

func (suite *TestSuiteStandard) TestCreateCategoryInvalid() {
	header := suite.register("invalid@example.com")

	tests := []struct {
		name string
		body string
	}{
		{"bad type", `{"name": "Snacks", "type": "snack"}`},
		{"negative limit", `{"name": "Snacks", "type": "expense", "monthly_limit_cents": -1}`},
		{"empty body", ""},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.T(), suite.controller, "POST", "/api/categories", tt.body, header)
		test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
	}
}

func (suite *TestSuiteStandard) TestCreateCategoryDuplicateName() {
	header := suite.register("dupname@example.com")

	_ = suite.createCategory(header, controllers.CategoryEditable{Name: "Textbooks", Type: models.CategoryTypeExpense})

	// Name comparison ignores case, and default envelopes count too
	for _, name := range []string{"textbooks", "Groceries"} {
		recorder := test.Request(suite.T(), suite.controller, "POST", "/api/categories", fmt.Sprintf(`{"name": %q, "type": "expense"}`, name), header)
		test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
		suite.Assert().Equal(fmt.Sprintf("Category '%s' already exists", name), test.DecodeError(suite.T(), recorder.Body.Bytes()))
	}
}

func (suite *TestSuiteStandard) TestCategoryIsolation() {
	headerA := suite.register("alice@example.com")
	headerB := suite.register("bob@example.com")

	category := suite.createCategory(headerA, controllers.CategoryEditable{Name: "Hobby", Type: models.CategoryTypeExpense})

	// Bob neither sees Alice's envelope in the list nor can fetch it directly
	recorder := test.Request(suite.T(), suite.controller, "GET", "/api/categories", "", headerB)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var categories []models.Category
	test.DecodeResponse(suite.T(), &recorder, &categories)
	for _, c := range categories {
		suite.Assert().NotEqual(category.ID, c.ID)
	}

	recorder = test.Request(suite.T(), suite.controller, "GET", fmt.Sprintf("/api/categories/%s", category.ID), "", headerB)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)

	// Bob can reuse the name since Alice's envelope is not visible to him
	recorder = test.Request(suite.T(), suite.controller, "POST", "/api/categories", `{"name": "Hobby", "type": "expense"}`, headerB)
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)
}

func (suite *TestSuiteStandard) TestUpdateCategory() {
	header := suite.register("update@example.com")

	category := suite.createCategory(header, controllers.CategoryEditable{Name: "Hobby", Type: models.CategoryTypeExpense})

	recorder := test.Request(suite.T(), suite.controller, "PUT", fmt.Sprintf("/api/categories/%s", category.ID), `{"name": "Hobbies", "type": "expense", "monthly_limit_cents": 5000, "is_default": true}`, header)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var updated models.Category
	test.DecodeResponse(suite.T(), &recorder, &updated)
	suite.Assert().Equal("Hobbies", updated.Name)
	suite.Require().NotNil(updated.MonthlyLimitCents)
	suite.Assert().Equal(int64(5000), *updated.MonthlyLimitCents)

	// The default flag cannot be set through the API
	suite.Assert().False(updated.IsDefault)
}

func (suite *TestSuiteStandard) TestUpdateCategoryDuplicateName() {
	header := suite.register("updatedup@example.com")

	_ = suite.createCategory(header, controllers.CategoryEditable{Name: "First", Type: models.CategoryTypeExpense})
	second := suite.createCategory(header, controllers.CategoryEditable{Name: "Second", Type: models.CategoryTypeExpense})

	recorder := test.Request(suite.T(), suite.controller, "PUT", fmt.Sprintf("/api/categories/%s", second.ID), `{"name": "First", "type": "expense"}`, header)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
}

func (suite *TestSuiteStandard) TestDeleteCategory() {
	header := suite.register("delete@example.com")

	category := suite.createCategory(header, controllers.CategoryEditable{Name: "Temporary", Type: models.CategoryTypeExpense})

	recorder := test.Request(suite.T(), suite.controller, "DELETE", fmt.Sprintf("/api/categories/%s", category.ID), "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)

	recorder = test.Request(suite.T(), suite.controller, "GET", fmt.Sprintf("/api/categories/%s", category.ID), "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}

func (suite *TestSuiteStandard) TestDeleteDefaultCategory() {
	header := suite.register("deldefault@example.com")

	recorder := test.Request(suite.T(), suite.controller, "GET", "/api/categories", "", header)
	var categories []models.Category
	test.DecodeResponse(suite.T(), &recorder, &categories)
	suite.Require().NotEmpty(categories)

	recorder = test.Request(suite.T(), suite.controller, "DELETE", fmt.Sprintf("/api/categories/%s", categories[0].ID), "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
	suite.Assert().Equal("Cannot delete default categories. You can edit them instead", test.DecodeError(suite.T(), recorder.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestDeleteReferencedCategory() {
	header := suite.register("delref@example.com")

	category := suite.createCategory(header, controllers.CategoryEditable{Name: "Coffee", Type: models.CategoryTypeExpense})
	_ = suite.createTransaction(header, controllers.TransactionEditable{
		Type:        models.CategoryTypeExpense,
		AmountCents: 450,
		CategoryID:  &category.ID,
	})

	recorder := test.Request(suite.T(), suite.controller, "DELETE", fmt.Sprintf("/api/categories/%s", category.ID), "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
	suite.Assert().Contains(test.DecodeError(suite.T(), recorder.Body.Bytes()), "used in 1 transaction(s)")
}

func (suite *TestSuiteStandard) TestCategoryInvalidUUID() {
	header := suite.register("baduuid@example.com")

	recorder := test.Request(suite.T(), suite.controller, "GET", "/api/categories/not-a-uuid", "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
}

func (suite *TestSuiteStandard) TestCategoryOptions() {
	header := suite.register("options@example.com")

	recorder := test.Request(suite.T(), suite.controller, "OPTIONS", "/api/categories", "", header)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)
	suite.Assert().Equal("GET, POST", recorder.Header().Get("allow"))
}
