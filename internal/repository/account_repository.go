package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eaglebank/ledger-service/internal/models"
	viewcache "github.com/eaglebank/ledger-service/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const accountKeyPrefix = "account:view:"

// AccountReadRepository reads accounts, which are owned and written by another
// system. Single-account lookups go through a Redis read-through cache when a
// Redis client is configured; a nil client disables caching.
type AccountReadRepository struct {
	db    *sql.DB
	cache *viewcache.ViewCache[models.Account]
}

func NewAccountReadRepository(db *sql.DB, redisClient *goredis.Client, ttl time.Duration) *AccountReadRepository {
	r := &AccountReadRepository{db: db}
	if redisClient != nil {
		r.cache = viewcache.NewViewCache[models.Account](redisClient, accountKeyPrefix, ttl)
	}
	return r
}

// FindByID returns ErrNotFound when no account has this id. It may answer
// from the cache, so the result can lag behind PostgreSQL by up to the TTL.
func (r *AccountReadRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if r.cache != nil {
		if account, ok := r.cache.Get(ctx, id); ok {
			return account, nil
		}
	}
	return r.FindCurrentByID(ctx, id)
}

// FindCurrentByID always reads PostgreSQL and refreshes the cached view.
// Writes that depend on the account state use it.
func (r *AccountReadRepository) FindCurrentByID(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT id, number, type, balance, creation_date, is_active
		FROM accounts
		WHERE id = $1
	`
	var account models.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.Number, &account.Type,
		&account.Balance, &account.CreationDate, &account.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		r.InvalidateAccount(ctx, id)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, id, &account)
	}
	return &account, nil
}

// ExistsByID always asks PostgreSQL; a deleted account must not linger in
// listings until its cache entry expires.
func (r *AccountReadRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account: %w", err)
	}
	return exists, nil
}

// FindAll returns one page of accounts ordered by id.
func (r *AccountReadRepository) FindAll(ctx context.Context, page models.PageRequest) (models.Page[models.Account], error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return models.Page[models.Account]{}, fmt.Errorf("failed to count accounts: %w", err)
	}

	query := `
		SELECT id, number, type, balance, creation_date, is_active
		FROM accounts
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, page.Size, page.Offset())
	if err != nil {
		return models.Page[models.Account]{}, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID, &account.Number, &account.Type,
			&account.Balance, &account.CreationDate, &account.Active,
		); err != nil {
			return models.Page[models.Account]{}, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return models.Page[models.Account]{}, fmt.Errorf("failed to list accounts: %w", err)
	}
	return models.NewPage(accounts, page, total), nil
}

// InvalidateAccount drops the cached view so the next read goes to PostgreSQL.
func (r *AccountReadRepository) InvalidateAccount(ctx context.Context, id string) {
	if r.cache != nil {
		r.cache.Delete(ctx, id)
	}
}
