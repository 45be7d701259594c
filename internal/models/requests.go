package models

import "github.com/shopspring/decimal"

// TransactionFields are the caller-supplied values of a transaction.
// Balance is a pointer so that an absent value is distinct from zero.
// Limits match the transactions table columns.
type TransactionFields struct {
	Number  string           `json:"number" validate:"required,max=64"`
	Balance *decimal.Decimal `json:"balance" validate:"required,amount"`
}

type CreateTransactionRequest struct {
	TransactionFields
}

type UpdateTransactionRequest struct {
	TransactionFields
}
