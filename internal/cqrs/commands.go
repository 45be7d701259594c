package cqrs

import "github.com/eaglebank/ledger-service/internal/models"

type AddTransactionCommand struct {
	AccountID string
	Fields    *models.TransactionFields
}

// UpdateTransactionCommand overwrites number and balance of an existing transaction.
type UpdateTransactionCommand struct {
	AccountID     string
	TransactionID string
	Fields        *models.TransactionFields
}

type DeleteTransactionCommand struct {
	AccountID     string
	TransactionID string
}
