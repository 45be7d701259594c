package query

import (
	"context"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/service"
)

type AccountChecker interface {
	AccountExists(ctx context.Context, accountID string) (bool, error)
}

type TransactionReader interface {
	FindAllByAccountID(ctx context.Context, accountID string, page models.PageRequest) (models.Page[models.Transaction], error)
}

// TransactionQueryService serves transaction reads. The account is always
// checked for existence before its transactions are listed.
type TransactionQueryService struct {
	transactions TransactionReader
	accounts     AccountChecker
}

func NewTransactionQueryService(transactions TransactionReader, accounts AccountChecker) *TransactionQueryService {
	return &TransactionQueryService{transactions: transactions, accounts: accounts}
}

// ListByAccount returns one page of the account's transactions. An empty page
// is a successful result, distinct from NOT_FOUND_ACCOUNT.
func (s *TransactionQueryService) ListByAccount(ctx context.Context, q cqrs.ListTransactionsQuery) (models.Page[models.TransactionSummary], error) {
	exists, err := s.accounts.AccountExists(ctx, q.AccountID)
	if err != nil {
		return models.Page[models.TransactionSummary]{}, err
	}
	if !exists {
		return models.Page[models.TransactionSummary]{}, service.NewError(service.NotFoundAccount, "Account doesn't exist")
	}

	page, err := s.transactions.FindAllByAccountID(ctx, q.AccountID, q.Page.Normalize())
	if err != nil {
		return models.Page[models.TransactionSummary]{}, err
	}
	return models.MapPage(page, toTransactionSummary), nil
}

func toTransactionSummary(t models.Transaction) models.TransactionSummary {
	return models.TransactionSummary{
		ID:      t.ID,
		Number:  t.Number,
		Balance: t.Balance,
	}
}
