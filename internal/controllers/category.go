package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studentbudget/backend/internal/httperrors"
	"github.com/studentbudget/backend/internal/httputil"
	"github.com/studentbudget/backend/internal/models"
	"gorm.io/gorm"
)

// RegisterCategoryRoutes registers the routes for categories with the
// RouterGroup that is passed.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetCategories)
		r.POST("", co.CreateCategory)
	}

	{
		r.OPTIONS("/:id", httputil.OptionsGetPutDelete)
		r.GET("/:id", co.GetCategory)
		r.PUT("/:id", co.UpdateCategory)
		r.DELETE("/:id", co.DeleteCategory)
	}
}

// visibleCategories scopes a category query to the envelopes the user may
// see: their own and the system-provided defaults.
func visibleCategories(user models.User) *gorm.DB {
	q := models.DB.Model(&models.Category{})
	if !user.IsAdmin() {
		q = q.Where("user_id = ? OR user_id IS NULL", user.ID)
	}

	return q
}

// findCategory loads a category by the :id URI parameter, restricted to
// the envelopes visible to the user.
func findCategory(c *gin.Context, user models.User) (models.Category, bool) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		httperrors.InvalidUUID(c)
		return models.Category{}, false
	}

	var category models.Category
	err := visibleCategories(user).First(&category, "categories.id = ?", uri.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperrors.New(c, http.StatusNotFound, "Category not found")
		} else {
			httperrors.Handler(c, err)
		}
		return models.Category{}, false
	}

	return category, true
}

// validateCategory checks the envelope invariants that map to client
// mistakes, so that they surface as 400 with a usable message.
func validateCategory(c *gin.Context, editable CategoryEditable) bool {
	if !editable.Type.Valid() {
		httperrors.New(c, http.StatusBadRequest, "Category type must be 'income' or 'expense'")
		return false
	}

	if editable.MonthlyLimitCents != nil && *editable.MonthlyLimitCents < 0 {
		httperrors.New(c, http.StatusBadRequest, "Monthly limit cannot be negative")
		return false
	}

	return true
}

// nameTaken reports whether the user already has an envelope with this
// name, ignoring case. The id of an existing envelope can be passed to
// exclude it, for renames.
func nameTaken(user models.User, name string, exclude ...models.Category) (bool, error) {
	q := models.DB.Model(&models.Category{}).
		Where("(user_id = ? OR user_id IS NULL)", user.ID).
		Where("LOWER(name) = LOWER(?)", name)

	if len(exclude) > 0 {
		q = q.Where("id != ?", exclude[0].ID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// @Summary		List categories
// @Description	Returns the categories of the current user, default envelopes first
// @Tags			Categories
// @Produce		json
// @Success		200	{array}		models.Category
// @Failure		400	{object}	httperrors.HTTPError
// @Param			type	query	string	false	"Filter by category type"
// @Router			/api/categories [get]
func (co Controller) GetCategories(c *gin.Context) {
	var filter CategoryQueryFilter
	if err := c.Bind(&filter); err != nil {
		httperrors.InvalidQueryString(c)
		return
	}

	q := visibleCategories(currentUser(c))

	if filter.Type != "" {
		if !models.CategoryType(filter.Type).Valid() {
			httperrors.New(c, http.StatusBadRequest, "Type must be 'income' or 'expense'")
			return
		}
		q = q.Where("type = ?", filter.Type)
	}

	categories := make([]models.Category, 0)
	err := q.Order("is_default DESC, name ASC").Find(&categories).Error
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// @Summary		Create category
// @Description	Creates a new envelope for the current user
// @Tags			Categories
// @Accept			json
// @Produce		json
// @Success		201	{object}	models.Category
// @Failure		400	{object}	httperrors.HTTPError
// @Param			body	body	CategoryEditable	true	"Category"
// @Router			/api/categories [post]
func (co Controller) CreateCategory(c *gin.Context) {
	var editable CategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	if !validateCategory(c, editable) {
		return
	}

	user := currentUser(c)

	taken, err := nameTaken(user, editable.Name)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}
	if taken {
		httperrors.New(c, http.StatusBadRequest, "Category '%s' already exists", editable.Name)
		return
	}

	category := editable.model()
	category.UserID = &user.ID

	if err := models.DB.Create(&category).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// @Summary		Get category
// @Description	Returns a specific category
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	models.Category
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Param			id	path	string	true	"ID of the category"
// @Router			/api/categories/{id} [get]
func (co Controller) GetCategory(c *gin.Context) {
	category, ok := findCategory(c, currentUser(c))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, category)
}

// @Summary		Update category
// @Description	Updates an existing category. The default flag cannot be changed
// @Tags			Categories
// @Accept			json
// @Produce		json
// @Success		200	{object}	models.Category
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Param			id		path	string				true	"ID of the category"
// @Param			body	body	CategoryEditable	true	"Category"
// @Router			/api/categories/{id} [put]
func (co Controller) UpdateCategory(c *gin.Context) {
	user := currentUser(c)

	category, ok := findCategory(c, user)
	if !ok {
		return
	}

	var editable CategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httperrors.New(c, http.StatusBadRequest, err.Error())
		return
	}

	if !validateCategory(c, editable) {
		return
	}

	if editable.Name != category.Name {
		taken, err := nameTaken(user, editable.Name, category)
		if err != nil {
			httperrors.Handler(c, err)
			return
		}
		if taken {
			httperrors.New(c, http.StatusBadRequest, "Category '%s' already exists", editable.Name)
			return
		}
	}

	// The default flag stays as it is, users cannot promote or demote
	// envelopes.
	category.Name = editable.Name
	category.Type = editable.Type
	category.MonthlyLimitCents = editable.MonthlyLimitCents

	if err := models.DB.Save(&category).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// @Summary		Delete category
// @Description	Deletes a category. Default envelopes and envelopes that are referenced by transactions cannot be deleted
// @Tags			Categories
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Param			id	path	string	true	"ID of the category"
// @Router			/api/categories/{id} [delete]
func (co Controller) DeleteCategory(c *gin.Context) {
	category, ok := findCategory(c, currentUser(c))
	if !ok {
		return
	}

	if category.IsDefault {
		httperrors.New(c, http.StatusBadRequest, "Cannot delete default categories. You can edit them instead")
		return
	}

	var count int64
	err := models.DB.Model(&models.Transaction{}).Where("category_id = ?", category.ID).Count(&count).Error
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	if count > 0 {
		httperrors.New(c, http.StatusBadRequest, "Cannot delete category. It is used in %d transaction(s). Please reassign or delete those transactions first", count)
		return
	}

	if err := models.DB.Delete(&category).Error; err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
