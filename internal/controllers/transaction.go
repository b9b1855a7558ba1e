package controllers

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studentbudget/backend/internal/httperrors"
	"github.com/studentbudget/backend/internal/httputil"
	"github.com/studentbudget/backend/internal/models"
	"gorm.io/gorm"
)

// Fields the transaction list can be sorted by.
var sortableFields = []string{"occurred_at", "amount_cents", "category_id"}

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetTransactions)
		r.POST("", co.CreateTransaction)
	}

	// The aggregates resource lives under the same path segment as the
	// transaction IDs, so the detail routes dispatch on the parameter.
	{
		r.OPTIONS("/:id", co.OptionsTransactionDetail)
		r.GET("/:id", co.GetTransaction)
		r.PUT("/:id", co.UpdateTransaction)
		r.DELETE("/:id", co.DeleteTransaction)
	}
}

func (co Controller) OptionsTransactionDetail(c *gin.Context) {
	if c.Param("id") == "aggregates" {
		httputil.OptionsGet(c)
		return
	}

	httputil.OptionsGetPutDelete(c)
}

// findTransaction loads a transaction by the :id URI parameter, restricted
// to the rows the user may see.
func findTransaction(c *gin.Context, user models.User) (models.Transaction, bool) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		httperrors.InvalidUUID(c)
		return models.Transaction{}, false
	}

	var transaction models.Transaction
	err := ownedTransactions(user).First(&transaction, "transactions.id = ?", uri.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperrors.New(c, http.StatusNotFound, "Transaction not found")
		} else {
			httperrors.Handler(c, err)
		}
		return models.Transaction{}, false
	}

	return transaction, true
}

// checkTransaction validates a transaction body against the current user:
// field-level invariants, the future-date rule and the category reference.
// The category must exist, be visible to the user and have the same type
// as the transaction.
func checkTransaction(c *gin.Context, user models.User, editable *TransactionEditable) bool {
	var errs []httperrors.ValidationError

	if !editable.Type.Valid() {
		errs = append(errs, httperrors.ValidationError{
			Loc: []string{"body", "type"},
			Msg: "value must be 'income' or 'expense'",
		})
	}

	if editable.AmountCents <= 0 {
		errs = append(errs, httperrors.ValidationError{
			Loc: []string{"body", "amount_cents"},
			Msg: "value must be a positive integer number of cents",
		})
	}

	if len(errs) > 0 {
		httperrors.Validation(c, errs...)
		return false
	}

	now := time.Now().In(time.UTC)
	if editable.OccurredAt.IsZero() {
		editable.OccurredAt = now
	}
	if editable.OccurredAt.After(now) {
		httperrors.New(c, http.StatusBadRequest, "Transaction date cannot be in the future")
		return false
	}

	if editable.CategoryID != nil {
		var category models.Category
		err := visibleCategories(user).First(&category, "categories.id = ?", *editable.CategoryID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperrors.New(c, http.StatusNotFound, "Category not found or does not belong to user")
			} else {
				httperrors.Handler(c, err)
			}
			return false
		}

		if category.Type != editable.Type {
			httperrors.New(c, http.StatusBadRequest, "Transaction type must match the category type")
			return false
		}
	}

	return true
}

// @Summary		List transactions
// @Description	Returns the transactions of the current user with filtering, sorting and pagination
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Param			type		query	string	false	"Filter by transaction type"
// @Param			category_id	query	string	false	"Filter by category ID"
// @Param			start_date	query	string	false	"Transactions at and after this date"
// @Param			end_date	query	string	false	"Transactions at and before this date"
// @Param			min_amount	query	int		false	"Amount in cents at least this"
// @Param			max_amount	query	int		false	"Amount in cents at most this"
// @Param			search		query	string	false	"Description contains this string"
// @Param			sort_by		query	string	false	"Sort field: occurred_at, amount_cents or category_id"
// @Param			sort_order	query	string	false	"Sort direction: asc or desc"
// @Param			page		query	int		false	"Page number, 1-indexed"
// @Param			limit		query	int		false	"Items per page, 1 to 100. Defaults to 50"
// @Router			/api/transactions [get]
func (co Controller) GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		httperrors.InvalidQueryString(c)
		return
	}

	q := ownedTransactions(currentUser(c))

	if filter.Type != "" {
		if !models.CategoryType(filter.Type).Valid() {
			httperrors.New(c, http.StatusBadRequest, "Type must be 'income' or 'expense'")
			return
		}
		q = q.Where("transactions.type = ?", filter.Type)
	}

	if filter.CategoryID != "" {
		id, err := uuid.Parse(filter.CategoryID)
		if err != nil {
			httperrors.InvalidUUID(c)
			return
		}
		q = q.Where("transactions.category_id = ?", id)
	}

	if filter.StartDate != "" {
		start, err := parseDate(filter.StartDate)
		if err != nil {
			httperrors.New(c, http.StatusBadRequest, err.Error())
			return
		}
		q = q.Where("transactions.occurred_at >= ?", start)
	}

	if filter.EndDate != "" {
		end, err := parseDate(filter.EndDate)
		if err != nil {
			httperrors.New(c, http.StatusBadRequest, err.Error())
			return
		}
		q = q.Where("transactions.occurred_at <= ?", end)
	}

	if filter.MinAmount != nil {
		q = q.Where("transactions.amount_cents >= ?", *filter.MinAmount)
	}

	if filter.MaxAmount != nil {
		q = q.Where("transactions.amount_cents <= ?", *filter.MaxAmount)
	}

	if filter.Search != "" {
		q = q.Where("transactions.description LIKE ?", "%"+filter.Search+"%")
	}

	sortBy := "occurred_at"
	if filter.SortBy != "" {
		if !slices.Contains(sortableFields, filter.SortBy) {
			httperrors.New(c, http.StatusBadRequest, "Sorting is only possible by the fields: occurred_at, amount_cents, category_id")
			return
		}
		sortBy = filter.SortBy
	}

	order := "DESC"
	switch filter.SortOrder {
	case "", "desc":
	case "asc":
		order = "ASC"
	default:
		httperrors.New(c, http.StatusBadRequest, "Sort order must be 'asc' or 'desc'")
		return
	}

	page := 1
	if filter.Page > 0 {
		page = filter.Page
	}

	limit := 50
	if filter.Limit != 0 {
		if filter.Limit < 1 || filter.Limit > 100 {
			httperrors.New(c, http.StatusBadRequest, "Limit must be between 1 and 100")
			return
		}
		limit = filter.Limit
	}

	q = q.Order("transactions." + sortBy + " " + order).
		Offset((page - 1) * limit).
		Limit(limit)

	items := make([]models.Transaction, 0)
	if err := q.Find(&items).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	var total int64
	if err := q.Limit(-1).Offset(-1).Count(&total).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

// @Summary		Create transaction
// @Description	Creates a new income or expense transaction
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201	{object}	models.Transaction
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		422	{object}	httperrors.HTTPValidationError
// @Param			body	body	TransactionEditable	true	"Transaction"
// @Router			/api/transactions [post]
func (co Controller) CreateTransaction(c *gin.Context) {
	var editable TransactionEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	user := currentUser(c)

	if !checkTransaction(c, user, &editable) {
		return
	}

	transaction := editable.model()
	transaction.UserID = user.ID

	if err := models.DB.Create(&transaction).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	models.Transaction
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Param			id	path	string	true	"ID of the transaction"
// @Router			/api/transactions/{id} [get]
func (co Controller) GetTransaction(c *gin.Context) {
	// "aggregates" shares the path segment with transaction IDs
	if c.Param("id") == "aggregates" {
		co.GetAggregates(c)
		return
	}

	transaction, ok := findTransaction(c, currentUser(c))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// @Summary		Update transaction
// @Description	Updates an existing transaction. This is a full replacement
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200	{object}	models.Transaction
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		422	{object}	httperrors.HTTPValidationError
// @Param			id		path	string				true	"ID of the transaction"
// @Param			body	body	TransactionEditable	true	"Transaction"
// @Router			/api/transactions/{id} [put]
func (co Controller) UpdateTransaction(c *gin.Context) {
	user := currentUser(c)

	transaction, ok := findTransaction(c, user)
	if !ok {
		return
	}

	var editable TransactionEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	if !checkTransaction(c, user, &editable) {
		return
	}

	transaction.Type = editable.Type
	transaction.AmountCents = editable.AmountCents
	transaction.CategoryID = editable.CategoryID
	transaction.OccurredAt = editable.OccurredAt
	transaction.Description = editable.Description
	transaction.ReceiptURL = editable.ReceiptURL
	transaction.Metadata = editable.Metadata

	if err := models.DB.Save(&transaction).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// @Summary		Delete transaction
// @Description	Deletes a transaction
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Param			id	path	string	true	"ID of the transaction"
// @Router			/api/transactions/{id} [delete]
func (co Controller) DeleteTransaction(c *gin.Context) {
	transaction, ok := findTransaction(c, currentUser(c))
	if !ok {
		return
	}

	if err := models.DB.Delete(&transaction).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
