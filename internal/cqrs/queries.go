package cqrs

import "github.com/eaglebank/ledger-service/internal/models"

// ---------- Account queries ----------

// ListAccountsQuery fetches one page of all accounts.
type ListAccountsQuery struct {
	Page models.PageRequest
}

// GetAccountQuery fetches a single account by id.
type GetAccountQuery struct {
	AccountID string
}

// ---------- Transaction queries ----------

// ListTransactionsQuery fetches one page of the transactions of an account.
type ListTransactionsQuery struct {
	AccountID string
	Page      models.PageRequest
}
