package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eaglebank/ledger-service/internal/models"
)

// TransactionReadRepository handles all read operations for transactions.
type TransactionReadRepository struct {
	db *sql.DB
}

func NewTransactionReadRepository(db *sql.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// FindByID returns ErrNotFound when no transaction has this id.
func (r *TransactionReadRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `
		SELECT id, account_id, number, balance
		FROM transactions
		WHERE id = $1
	`
	var tx models.Transaction
	err := r.db.QueryRowContext(ctx, query, id).Scan(&tx.ID, &tx.AccountID, &tx.Number, &tx.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

// FindAllByAccountID returns one page of an account's transactions ordered by id.
func (r *TransactionReadRepository) FindAllByAccountID(ctx context.Context, accountID string, page models.PageRequest) (models.Page[models.Transaction], error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&total)
	if err != nil {
		return models.Page[models.Transaction]{}, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `
		SELECT id, account_id, number, balance
		FROM transactions
		WHERE account_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, accountID, page.Size, page.Offset())
	if err != nil {
		return models.Page[models.Transaction]{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.Number, &tx.Balance); err != nil {
			return models.Page[models.Transaction]{}, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return models.Page[models.Transaction]{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	return models.NewPage(txs, page, total), nil
}
