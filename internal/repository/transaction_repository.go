package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eaglebank/ledger-service/internal/models"
)

// TransactionWriteRepository handles all state-mutating operations for transactions.
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

func (r *TransactionWriteRepository) Save(ctx context.Context, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, number, balance)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		transaction.ID, transaction.AccountID, transaction.Number, transaction.Balance,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// Update overwrites number and balance. Identity and owning account are never written.
func (r *TransactionWriteRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	query := `
		UPDATE transactions
		SET number = $2, balance = $3
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, transaction.ID, transaction.Number, transaction.Balance)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return expectOneRow(result)
}

func (r *TransactionWriteRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
