package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	AccountUpdated = "account.updated"
	AccountBlocked = "account.blocked"
	AccountDeleted = "account.deleted"

	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
)

// Stream names
const (
	AccountEventsStream     = "account.events"
	TransactionEventsStream = "transaction.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Account events, produced by the system that owns accounts.
type AccountChangedEvent struct {
	AccountID string `json:"accountId"`
}

// Transaction events
type TransactionChangedEvent struct {
	TransactionID string           `json:"transactionId"`
	AccountID     string           `json:"accountId"`
	Number        string           `json:"number,omitempty"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
}
