package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryType is the type of transactions a category groups.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether the type is one of the two allowed values.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category represents a budget envelope: a named group of transactions
// with an optional monthly spending ceiling.
type Category struct {
	DefaultModel
	UserID            *uuid.UUID   `json:"user_id" gorm:"index"` // nil for system-provided defaults
	User              User         `json:"-"`
	Name              string       `json:"name" example:"Textbooks"`
	Type              CategoryType `json:"type" example:"expense"`
	MonthlyLimitCents *int64       `json:"monthly_limit_cents" example:"25000"` // nil means no ceiling
	IsDefault         bool         `json:"is_default" example:"false"`
}

// BeforeSave validates the envelope invariants.
func (c *Category) BeforeSave(_ *gorm.DB) error {
	if !c.Type.Valid() {
		return ErrCategoryTypeInvalid
	}

	if c.MonthlyLimitCents != nil && *c.MonthlyLimitCents < 0 {
		return ErrCategoryLimitNegative
	}

	return nil
}
