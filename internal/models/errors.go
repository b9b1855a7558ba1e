package models

import "errors"

var (
	ErrUserEmailEmpty               = errors.New("the email must not be empty")
	ErrCategoryTypeInvalid          = errors.New("category type must be 'income' or 'expense'")
	ErrCategoryLimitNegative        = errors.New("monthly limit cannot be negative")
	ErrTransactionTypeInvalid       = errors.New("transaction type must be 'income' or 'expense'")
	ErrTransactionAmountNotPositive = errors.New("the transaction amount must be a positive number of cents")

	// ErrGeneral is returned wherever a database error cannot be mapped to
	// something more specific.
	ErrGeneral = errors.New("a database error occurred during your request")
)
