package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is owned by an external system; this service only reads it.
type Account struct {
	ID           string          `json:"id"`
	Number       string          `json:"number"`
	Type         string          `json:"type"`
	Balance      decimal.Decimal `json:"balance"`
	CreationDate time.Time       `json:"creationDate"`
	Active       bool            `json:"active"`
}

// Transaction is a ledger entry owned by exactly one account.
// ID and AccountID are assigned by the command service and never change.
type Transaction struct {
	ID        string          `json:"id"`
	AccountID string          `json:"accountId"`
	Number    string          `json:"number"`
	Balance   decimal.Decimal `json:"balance"`
}
