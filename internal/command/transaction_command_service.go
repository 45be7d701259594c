package command

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/repository"
	"github.com/eaglebank/ledger-service/internal/service"
	"github.com/eaglebank/ledger-service/internal/utils"
	"github.com/eaglebank/ledger-service/internal/validation"
)

// AccountDetailer resolves the current state of an account, failing with
// NOT_FOUND_ACCOUNT when absent. It must not answer from a cache.
type AccountDetailer interface {
	GetCurrentAccountDetails(ctx context.Context, q cqrs.GetAccountQuery) (*models.AccountDetail, error)
}

type TransactionFinder interface {
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
}

type TransactionWriter interface {
	Save(ctx context.Context, transaction *models.Transaction) error
	Update(ctx context.Context, transaction *models.Transaction) error
	DeleteByID(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// TransactionCommandService adds, updates and deletes transactions. Every
// operation checks the account and transaction ownership before writing.
type TransactionCommandService struct {
	writeRepo TransactionWriter
	readRepo  TransactionFinder
	accounts  AccountDetailer
	publisher EventPublisher
	newID     func() string
}

func NewTransactionCommandService(
	writeRepo TransactionWriter,
	readRepo TransactionFinder,
	accounts AccountDetailer,
	publisher EventPublisher,
) *TransactionCommandService {
	return &TransactionCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		accounts:  accounts,
		publisher: publisher,
		newID:     utils.GenerateTransactionID,
	}
}

// AddTransaction persists a new transaction on an active account and returns
// its generated id. Parameters are checked before the account is looked up.
func (s *TransactionCommandService) AddTransaction(ctx context.Context, cmd cqrs.AddTransactionCommand) (string, error) {
	slog.DebugContext(ctx, "adding new transaction into account", "accountId", cmd.AccountID)

	fieldErrs := checkFields(cmd.Fields)
	if cmd.AccountID == "" || fieldErrs != nil {
		slog.WarnContext(ctx, "missing required parameters", "accountId", cmd.AccountID)
		return "", &service.Error{
			Code:    service.InvalidParameters,
			Message: "Missing required parameters",
			Details: fieldErrs,
		}
	}

	if err := s.requireActiveAccount(ctx, cmd.AccountID); err != nil {
		return "", err
	}

	transaction := fromFields(cmd.Fields)
	transaction.ID = s.newID()
	transaction.AccountID = cmd.AccountID

	if err := s.writeRepo.Save(ctx, transaction); err != nil {
		return "", err
	}
	s.publish(ctx, events.TransactionCreated, transaction)
	return transaction.ID, nil
}

// UpdateTransaction overwrites number and balance of a transaction owned by the
// given account. Identity and ownership never change.
func (s *TransactionCommandService) UpdateTransaction(ctx context.Context, cmd cqrs.UpdateTransactionCommand) error {
	slog.DebugContext(ctx, "updating transaction", "transactionId", cmd.TransactionID)

	if err := s.requireActiveAccount(ctx, cmd.AccountID); err != nil {
		return err
	}

	fieldErrs := checkFields(cmd.Fields)
	if cmd.TransactionID == "" || fieldErrs != nil {
		slog.WarnContext(ctx, "missing required parameters", "transactionId", cmd.TransactionID)
		return &service.Error{
			Code:    service.InvalidParameters,
			Message: "Missing required parameters",
			Details: fieldErrs,
		}
	}

	transaction, err := s.getTransaction(ctx, cmd.TransactionID)
	if err != nil {
		return err
	}
	if err := checkOwnership(transaction, cmd.AccountID); err != nil {
		return err
	}

	transaction.Number = cmd.Fields.Number
	transaction.Balance = *cmd.Fields.Balance
	if err := s.writeRepo.Update(ctx, transaction); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transactionNotFound()
		}
		return err
	}
	s.publish(ctx, events.TransactionUpdated, transaction)
	return nil
}

// DeleteTransaction removes a transaction owned by the given account. Blank ids
// are rejected before any repository access.
func (s *TransactionCommandService) DeleteTransaction(ctx context.Context, cmd cqrs.DeleteTransactionCommand) error {
	slog.DebugContext(ctx, "deleting transaction", "transactionId", cmd.TransactionID)

	if cmd.AccountID == "" || cmd.TransactionID == "" {
		slog.WarnContext(ctx, "missing required parameters")
		return service.NewError(service.InvalidParameters, "Account id or transaction id can't be blank")
	}

	transaction, err := s.getTransaction(ctx, cmd.TransactionID)
	if err != nil {
		return err
	}
	if err := checkOwnership(transaction, cmd.AccountID); err != nil {
		return err
	}

	if err := s.writeRepo.DeleteByID(ctx, cmd.TransactionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transactionNotFound()
		}
		return err
	}
	s.publish(ctx, events.TransactionDeleted, &models.Transaction{ID: transaction.ID, AccountID: transaction.AccountID})
	return nil
}

func (s *TransactionCommandService) requireActiveAccount(ctx context.Context, accountID string) error {
	account, err := s.accounts.GetCurrentAccountDetails(ctx, cqrs.GetAccountQuery{AccountID: accountID})
	if err != nil {
		return err
	}
	if !account.Active {
		return service.NewError(service.AccountBlocked, "Account blocked")
	}
	return nil
}

func (s *TransactionCommandService) getTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	transaction, err := s.readRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, transactionNotFound()
	}
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// publish never fails the command; the write has already happened.
func (s *TransactionCommandService) publish(ctx context.Context, eventType string, t *models.Transaction) {
	data := events.TransactionChangedEvent{
		TransactionID: t.ID,
		AccountID:     t.AccountID,
		Number:        t.Number,
	}
	if eventType != events.TransactionDeleted {
		balance := t.Balance
		data.Balance = &balance
	}
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, eventType, data); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", "type", eventType, "transactionId", t.ID, "error", err)
	}
}

func checkFields(fields *models.TransactionFields) []validation.FieldError {
	if fields == nil {
		return []validation.FieldError{{Message: "Request body is required", Type: "required"}}
	}
	return validation.Validate(fields)
}

func checkOwnership(t *models.Transaction, accountID string) error {
	if t.AccountID != accountID {
		return service.NewError(service.ForbiddenTransaction, "Transaction don't belongs to account")
	}
	return nil
}

// fromFields copies only caller-owned values; id and account id are assigned
// by the service.
func fromFields(fields *models.TransactionFields) *models.Transaction {
	return &models.Transaction{
		Number:  fields.Number,
		Balance: *fields.Balance,
	}
}

func transactionNotFound() error {
	return service.NewError(service.NotFoundTransaction, "Transaction doesn't exist")
}
