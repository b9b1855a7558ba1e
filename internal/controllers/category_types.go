package controllers

import (
	"github.com/studentbudget/backend/internal/models"
)

// CategoryEditable are the fields of a Category that clients can set.
type CategoryEditable struct {
	Name              string              `json:"name" example:"Textbooks"`
	Type              models.CategoryType `json:"type" example:"expense"`
	MonthlyLimitCents *int64              `json:"monthly_limit_cents" example:"25000"`
	IsDefault         bool                `json:"is_default" example:"false" default:"false"`
}

// model returns the database resource for the API representation of the
// editable fields.
func (editable CategoryEditable) model() models.Category {
	return models.Category{
		Name:              editable.Name,
		Type:              editable.Type,
		MonthlyLimitCents: editable.MonthlyLimitCents,
		IsDefault:         editable.IsDefault,
	}
}

// CategoryQueryFilter are the query string parameters for the category list.
type CategoryQueryFilter struct {
	Type string `form:"type"` // Filter by category type
}
