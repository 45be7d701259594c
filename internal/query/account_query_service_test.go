package query

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/repository"
	"github.com/eaglebank/ledger-service/internal/service"
)

// ---- fake repository ----

// fakeAccountReader serves FindByID from accounts, as the cache would, and
// FindCurrentByID from current when set, as PostgreSQL would.
type fakeAccountReader struct {
	accounts    map[string]models.Account
	current     map[string]models.Account
	err         error
	lastPage    models.PageRequest
	invalidated []string
}

func (f *fakeAccountReader) FindByID(_ context.Context, id string) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAccountReader) FindCurrentByID(ctx context.Context, id string) (*models.Account, error) {
	if f.current == nil {
		return f.FindByID(ctx, id)
	}
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.current[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAccountReader) ExistsByID(_ context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.accounts[id]
	return ok, nil
}

func (f *fakeAccountReader) FindAll(_ context.Context, page models.PageRequest) (models.Page[models.Account], error) {
	f.lastPage = page
	if f.err != nil {
		return models.Page[models.Account]{}, f.err
	}
	var content []models.Account
	for _, id := range []string{"1", "2", "3"} {
		if a, ok := f.accounts[id]; ok {
			content = append(content, a)
		}
	}
	return models.NewPage(content, page, int64(len(content))), nil
}

func (f *fakeAccountReader) InvalidateAccount(_ context.Context, id string) {
	f.invalidated = append(f.invalidated, id)
}

var created = time.Date(2017, 3, 12, 0, 0, 0, 0, time.UTC)

func newFakeAccounts() *fakeAccountReader {
	return &fakeAccountReader{accounts: map[string]models.Account{
		"1": {ID: "1", Number: "FR100", Type: "CURRENT", Balance: decimal.NewFromInt(10), CreationDate: created, Active: true},
		"2": {ID: "2", Number: "FR185", Type: "SAVINGS", Balance: decimal.RequireFromString("150.25"), CreationDate: created, Active: true},
		"3": {ID: "3", Number: "FR200", Type: "CURRENT", Balance: decimal.Zero, CreationDate: created, Active: false},
	}}
}

// ---- tests ----

func TestListAccounts(t *testing.T) {
	repo := newFakeAccounts()
	svc := NewAccountQueryService(repo)

	page, err := svc.ListAccounts(context.Background(), cqrs.ListAccountsQuery{})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPageSize, repo.lastPage.Size, "page size defaults when unset")
	require.Len(t, page.Content, 3)
	assert.Equal(t, models.AccountSummary{ID: "2", Number: "FR185", Type: "SAVINGS", Balance: decimal.RequireFromString("150.25")}, page.Content[1])
	assert.Equal(t, int64(3), page.TotalElements)
}

func TestListAccountsPropagatesRepositoryError(t *testing.T) {
	repo := &fakeAccountReader{err: errors.New("connection refused")}
	_, err := NewAccountQueryService(repo).ListAccounts(context.Background(), cqrs.ListAccountsQuery{})
	assert.EqualError(t, err, "connection refused")
}

func TestAccountExists(t *testing.T) {
	svc := NewAccountQueryService(newFakeAccounts())

	ok, err := svc.AccountExists(context.Background(), "2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.AccountExists(context.Background(), "4")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetAccountDetails(t *testing.T) {
	svc := NewAccountQueryService(newFakeAccounts())

	detail, err := svc.GetAccountDetails(context.Background(), cqrs.GetAccountQuery{AccountID: "3"})
	require.NoError(t, err)
	assert.Equal(t, "3", detail.ID)
	assert.False(t, detail.Active)
	assert.Equal(t, created, detail.CreationDate)

	_, err = svc.GetAccountDetails(context.Background(), cqrs.GetAccountQuery{AccountID: "4"})
	se, ok := service.AsError(err)
	require.True(t, ok, "expected service error, got %v", err)
	assert.Equal(t, service.NotFoundAccount, se.Code)
	assert.Equal(t, "Account doesn't exist", se.Message)
}

func TestGetAccountDetailsInfrastructureError(t *testing.T) {
	svc := NewAccountQueryService(&fakeAccountReader{err: errors.New("timeout")})
	_, err := svc.GetAccountDetails(context.Background(), cqrs.GetAccountQuery{AccountID: "2"})
	require.Error(t, err)
	_, isServiceErr := service.AsError(err)
	assert.False(t, isServiceErr)
}

func TestGetCurrentAccountDetailsBypassesCachedView(t *testing.T) {
	repo := newFakeAccounts()
	repo.current = map[string]models.Account{
		"2": {ID: "2", Number: "FR185", Type: "SAVINGS", Balance: decimal.RequireFromString("150.25"), CreationDate: created, Active: false},
	}
	svc := NewAccountQueryService(repo)

	cached, err := svc.GetAccountDetails(context.Background(), cqrs.GetAccountQuery{AccountID: "2"})
	require.NoError(t, err)
	assert.True(t, cached.Active)

	current, err := svc.GetCurrentAccountDetails(context.Background(), cqrs.GetAccountQuery{AccountID: "2"})
	require.NoError(t, err)
	assert.False(t, current.Active)

	_, err = svc.GetCurrentAccountDetails(context.Background(), cqrs.GetAccountQuery{AccountID: "1"})
	se, ok := service.AsError(err)
	require.True(t, ok, "expected service error, got %v", err)
	assert.Equal(t, service.NotFoundAccount, se.Code)
}

func TestHandleAccountEvent(t *testing.T) {
	tests := []struct {
		name            string
		event           events.Event
		wantInvalidated []string
		wantErr         bool
	}{
		{
			name:            "blocked account is invalidated",
			event:           accountEvent(t, events.AccountBlocked, "2"),
			wantInvalidated: []string{"2"},
		},
		{
			name:            "updated account is invalidated",
			event:           accountEvent(t, events.AccountUpdated, "1"),
			wantInvalidated: []string{"1"},
		},
		{
			name:            "deleted account is invalidated",
			event:           accountEvent(t, events.AccountDeleted, "3"),
			wantInvalidated: []string{"3"},
		},
		{
			name:  "unrelated event is ignored",
			event: accountEvent(t, events.TransactionCreated, "2"),
		},
		{
			name:  "event without account id is ignored",
			event: events.Event{Type: events.AccountBlocked, Data: map[string]any{}},
		},
		{
			name:    "malformed payload is rejected",
			event:   events.Event{Type: events.AccountBlocked, Data: map[string]any{"accountId": true}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeAccounts()
			err := NewAccountQueryService(repo).HandleAccountEvent(context.Background(), tt.event)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantInvalidated, repo.invalidated)
		})
	}
}

// accountEvent builds an event the way the subscriber hands it over: with Data
// decoded from JSON into a generic value.
func accountEvent(t *testing.T, eventType, accountID string) events.Event {
	t.Helper()
	raw, err := json.Marshal(events.Event{Type: eventType, Data: events.AccountChangedEvent{AccountID: accountID}})
	require.NoError(t, err)
	var e events.Event
	require.NoError(t, json.Unmarshal(raw, &e))
	return e
}
