package query

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/repository"
	"github.com/eaglebank/ledger-service/internal/service"
)

// AccountReader is the slice of the account repository the query side needs.
type AccountReader interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindCurrentByID(ctx context.Context, id string) (*models.Account, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	FindAll(ctx context.Context, page models.PageRequest) (models.Page[models.Account], error)
	InvalidateAccount(ctx context.Context, id string)
}

type AccountQueryService struct {
	accounts AccountReader
}

func NewAccountQueryService(accounts AccountReader) *AccountQueryService {
	return &AccountQueryService{accounts: accounts}
}

func (s *AccountQueryService) ListAccounts(ctx context.Context, q cqrs.ListAccountsQuery) (models.Page[models.AccountSummary], error) {
	page, err := s.accounts.FindAll(ctx, q.Page.Normalize())
	if err != nil {
		return models.Page[models.AccountSummary]{}, err
	}
	return models.MapPage(page, toAccountSummary), nil
}

func (s *AccountQueryService) AccountExists(ctx context.Context, accountID string) (bool, error) {
	return s.accounts.ExistsByID(ctx, accountID)
}

// GetAccountDetails fails with NOT_FOUND_ACCOUNT when the account is absent.
// It may be served from the account cache.
func (s *AccountQueryService) GetAccountDetails(ctx context.Context, q cqrs.GetAccountQuery) (*models.AccountDetail, error) {
	slog.DebugContext(ctx, "find account", "accountId", q.AccountID)
	return detailOrNotFound(s.accounts.FindByID(ctx, q.AccountID))
}

// GetCurrentAccountDetails is GetAccountDetails read straight from the
// database, for checks that gate a write.
func (s *AccountQueryService) GetCurrentAccountDetails(ctx context.Context, q cqrs.GetAccountQuery) (*models.AccountDetail, error) {
	slog.DebugContext(ctx, "find current account", "accountId", q.AccountID)
	return detailOrNotFound(s.accounts.FindCurrentByID(ctx, q.AccountID))
}

func detailOrNotFound(account *models.Account, err error) (*models.AccountDetail, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, service.NewError(service.NotFoundAccount, "Account doesn't exist")
	}
	if err != nil {
		return nil, err
	}
	return toAccountDetail(account), nil
}

// HandleAccountEvent drops the cached view of an account changed by its owning
// system, so a block takes effect on the next request.
func (s *AccountQueryService) HandleAccountEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.AccountUpdated, events.AccountBlocked, events.AccountDeleted:
	default:
		return nil
	}
	var data events.AccountChangedEvent
	if err := events.DecodeData(event, &data); err != nil {
		return err
	}
	if data.AccountID == "" {
		return nil
	}
	s.accounts.InvalidateAccount(ctx, data.AccountID)
	slog.InfoContext(ctx, "account view invalidated", "accountId", data.AccountID, "event", event.Type)
	return nil
}

func toAccountSummary(a models.Account) models.AccountSummary {
	return models.AccountSummary{
		ID:      a.ID,
		Number:  a.Number,
		Type:    a.Type,
		Balance: a.Balance,
	}
}

func toAccountDetail(a *models.Account) *models.AccountDetail {
	return &models.AccountDetail{
		ID:           a.ID,
		Number:       a.Number,
		Type:         a.Type,
		Balance:      a.Balance,
		CreationDate: a.CreationDate,
		Active:       a.Active,
	}
}
