// Package seed fills a fresh database with the default categories and,
// optionally, demo accounts for local development.
package seed

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/studentbudget/backend/internal/auth"
	"github.com/studentbudget/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func strPtr(s string) *string {
	return &s
}

func centsPtr(c int64) *int64 {
	return &c
}

// defaultCategories are available to every user. They carry fixed IDs so
// that repeated seeding is idempotent.
var defaultCategories = []models.Category{
	{DefaultModel: models.DefaultModel{ID: uuid.MustParse("a1000000-0000-0000-0000-000000000001")}, Name: "Salary", Type: models.CategoryTypeIncome, IsDefault: true},
	{DefaultModel: models.DefaultModel{ID: uuid.MustParse("a1000000-0000-0000-0000-000000000002")}, Name: "Scholarship", Type: models.CategoryTypeIncome, IsDefault: true},
	{DefaultModel: models.DefaultModel{ID: uuid.MustParse("a1000000-0000-0000-0000-000000000003")}, Name: "Allowance", Type: models.CategoryTypeIncome, IsDefault: true},
	{DefaultModel: models.DefaultModel{ID: uuid.MustParse("a1000000-0000-0000-0000-000000000004")}, Name: "Groceries", Type: models.CategoryTypeExpense, IsDefault: true, MonthlyLimitCents: centsPtr(30000)},
	{DefaultModel: models.DefaultModel{ID: uuid.MustParse("a1000000-0000-0000-0000-000000000005")}, Name: "Rent", Type: models.CategoryTypeExpense, IsDefault: true},
	{DefaultModel: models.DefaultModel{ID: uuid.MustParse("a1000000-0000-0000-0000-000000000006")}, Name: "Transport", Type: models.CategoryTypeExpense, IsDefault: true, MonthlyLimitCents: centsPtr(10000)},
	{DefaultModel: models.DefaultModel{ID: uuid.MustParse("a1000000-0000-0000-0000-000000000007")}, Name: "Eating Out", Type: models.CategoryTypeExpense, IsDefault: true, MonthlyLimitCents: centsPtr(15000)},
	{DefaultModel: models.DefaultModel{ID: uuid.MustParse("a1000000-0000-0000-0000-000000000008")}, Name: "Entertainment", Type: models.CategoryTypeExpense, IsDefault: true, MonthlyLimitCents: centsPtr(10000)},
	{DefaultModel: models.DefaultModel{ID: uuid.MustParse("a1000000-0000-0000-0000-000000000009")}, Name: "Books & Supplies", Type: models.CategoryTypeExpense, IsDefault: true},
	{DefaultModel: models.DefaultModel{ID: uuid.MustParse("a1000000-0000-0000-0000-00000000000a")}, Name: "Other", Type: models.CategoryTypeExpense, IsDefault: true},
}

// Categories creates the default categories if they do not exist yet.
func Categories(db *gorm.DB) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaultCategories).Error
}

// DemoUsers creates two demo accounts with a handful of transactions.
// Passwords are fixed and only suitable for local development.
func DemoUsers(db *gorm.DB) error {
	demoID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	adminID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	demoHash, err := auth.HashPassword("courage.the.cowardly.dog")
	if err != nil {
		return err
	}

	adminHash, err := auth.HashPassword("morgen-erst-und-dann-das-fruehstueck")
	if err != nil {
		return err
	}

	users := []models.User{
		{
			DefaultModel: models.DefaultModel{ID: demoID},
			Email:        "courage@example.com",
			PasswordHash: demoHash,
			FirstName:    strPtr("Courage"),
			LastName:     strPtr("Bagge"),
			Role:         models.RoleStudent,
		},
		{
			DefaultModel: models.DefaultModel{ID: adminID},
			Email:        "admin@example.com",
			PasswordHash: adminHash,
			FirstName:    strPtr("Ad"),
			LastName:     strPtr("Min"),
			Role:         models.RoleAdmin,
		},
	}

	err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&users).Error
	if err != nil {
		return err
	}

	// A month of example spending for the demo user so that the
	// aggregates have something to chew on right away.
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC)

	transactions := []models.Transaction{
		{
			DefaultModel: models.DefaultModel{ID: uuid.MustParse("b2000000-0000-0000-0000-000000000001")},
			UserID:       demoID,
			CategoryID:   &defaultCategories[0].ID,
			Type:         models.CategoryTypeIncome,
			AmountCents:  120000,
			OccurredAt:   monthStart,
			Description:  strPtr("Part-time job"),
		},
		{
			DefaultModel: models.DefaultModel{ID: uuid.MustParse("b2000000-0000-0000-0000-000000000002")},
			UserID:       demoID,
			CategoryID:   &defaultCategories[4].ID,
			Type:         models.CategoryTypeExpense,
			AmountCents:  45000,
			OccurredAt:   monthStart.AddDate(0, 0, 1),
			Description:  strPtr("Rent share"),
		},
		{
			DefaultModel: models.DefaultModel{ID: uuid.MustParse("b2000000-0000-0000-0000-000000000003")},
			UserID:       demoID,
			CategoryID:   &defaultCategories[3].ID,
			Type:         models.CategoryTypeExpense,
			AmountCents:  6275,
			OccurredAt:   monthStart.AddDate(0, 0, 3),
			Description:  strPtr("Weekly groceries"),
		},
		{
			DefaultModel: models.DefaultModel{ID: uuid.MustParse("b2000000-0000-0000-0000-000000000004")},
			UserID:       demoID,
			CategoryID:   &defaultCategories[6].ID,
			Type:         models.CategoryTypeExpense,
			AmountCents:  1850,
			OccurredAt:   monthStart.AddDate(0, 0, 5),
			Description:  strPtr("Pizza night"),
		},
	}

	err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&transactions).Error
	if err != nil {
		return err
	}

	log.Info().Msg("demo data seeded")
	return nil
}
