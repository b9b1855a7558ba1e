package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction represents a single income or expense entry.
//
// All monetary values are integer minor-currency units (cents) to avoid
// floating-point rounding errors.
type Transaction struct {
	DefaultModel
	UserID      uuid.UUID      `json:"user_id" gorm:"index"`
	User        User           `json:"-"`
	CategoryID  *uuid.UUID     `json:"category_id" gorm:"index"`
	Category    *Category      `json:"-"`
	Type        CategoryType   `json:"type" example:"expense"`
	AmountCents int64          `json:"amount_cents" example:"1299"`
	OccurredAt  time.Time      `json:"occurred_at" example:"2024-11-04T00:00:00Z"`
	Description *string        `json:"description" example:"Calculus II textbook"`
	ReceiptURL  *string        `json:"receipt_url"`
	Metadata    map[string]any `json:"metadata" gorm:"serializer:json"`
}

// BeforeSave validates the transaction invariants and normalizes the
// occurrence timestamp to UTC.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	if !CategoryType(t.Type).Valid() {
		return ErrTransactionTypeInvalid
	}

	if t.AmountCents <= 0 {
		return ErrTransactionAmountNotPositive
	}

	if t.OccurredAt.IsZero() {
		t.OccurredAt = time.Now().In(time.UTC)
	} else {
		t.OccurredAt = t.OccurredAt.In(time.UTC)
	}

	return nil
}

// AfterFind updates the occurrence timestamp to use UTC as timezone.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	if err = t.DefaultModel.AfterFind(tx); err != nil {
		return err
	}

	t.OccurredAt = t.OccurredAt.In(time.UTC)
	return nil
}
