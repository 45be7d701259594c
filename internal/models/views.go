package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSummary is the list projection of an account.
type AccountSummary struct {
	ID      string          `json:"id"`
	Number  string          `json:"number"`
	Type    string          `json:"type"`
	Balance decimal.Decimal `json:"balance"`
}

// AccountDetail is the single-account projection, including activation state.
type AccountDetail struct {
	ID           string          `json:"id"`
	Number       string          `json:"number"`
	Type         string          `json:"type"`
	Balance      decimal.Decimal `json:"balance"`
	CreationDate time.Time       `json:"creationDate"`
	Active       bool            `json:"active"`
}

// TransactionSummary is the read projection of a transaction.
// The owning account id is intentionally not part of it.
type TransactionSummary struct {
	ID      string          `json:"id"`
	Number  string          `json:"number"`
	Balance decimal.Decimal `json:"balance"`
}

// SuccessResponse is returned by endpoints that have nothing but a message to say.
type SuccessResponse struct {
	Message string `json:"message"`
}
