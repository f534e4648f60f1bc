package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimeshpahadi/betstream/internal/domain"
)

// createTestAccount creates an account with default values for testing.
func createTestAccount(t *testing.T, repo *AccountRepo, name string) *domain.Account {
	t.Helper()

	account, err := repo.Create(context.Background(), name, "host-"+name)
	require.NoError(t, err)
	require.NotZero(t, account.ID)
	return account
}

func TestAccountCreate(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewAccountRepo(pool)
	ctx := context.Background()

	account, err := repo.Create(ctx, "punter-1", "host-a")
	require.NoError(t, err)

	assert.NotZero(t, account.ID)
	assert.Equal(t, "punter-1", account.Name)
	assert.Equal(t, "host-a", account.Hostname)
	assert.WithinDuration(t, time.Now(), account.CreatedAt, 5*time.Second)
	assert.Equal(t, account.CreatedAt, account.UpdatedAt)
}

func TestAccountGetByID(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewAccountRepo(pool)
	ctx := context.Background()

	created := createTestAccount(t, repo, "punter-1")

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
}

func TestAccountGetByID_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewAccountRepo(pool)

	_, err := repo.GetByID(context.Background(), 424242)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountList_NewestFirst(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewAccountRepo(pool)
	ctx := context.Background()

	first := createTestAccount(t, repo, "older")
	second := createTestAccount(t, repo, "newer")

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	// created_at can tie within clock resolution; both orders with the
	// newer one first are acceptable.
	ids := []int64{accounts[0].ID, accounts[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
}

func TestAccountList_Empty(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewAccountRepo(pool)

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestAccountUpdate_Partial(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewAccountRepo(pool)
	ctx := context.Background()

	created := createTestAccount(t, repo, "punter-1")

	newName := "punter-renamed"
	updated, err := repo.Update(ctx, created.ID, domain.AccountUpdate{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "punter-renamed", updated.Name)
	assert.Equal(t, created.Hostname, updated.Hostname, "nil fields stay untouched")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
}

func TestAccountUpdate_BothFields(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewAccountRepo(pool)
	ctx := context.Background()

	created := createTestAccount(t, repo, "punter-1")

	newName := "renamed"
	newHost := "host-z"
	updated, err := repo.Update(ctx, created.ID, domain.AccountUpdate{Name: &newName, Hostname: &newHost})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "host-z", updated.Hostname)
}

func TestAccountUpdate_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewAccountRepo(pool)

	name := "ghost"
	_, err := repo.Update(context.Background(), 424242, domain.AccountUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountDelete(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewAccountRepo(pool)
	ctx := context.Background()

	created := createTestAccount(t, repo, "punter-1")

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err := repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	// Deleting again reports not found
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), domain.ErrAccountNotFound)
}

func TestAccountDelete_CascadesToBatchesAndBets(t *testing.T) {
	pool := setupTestDB(t)
	accountRepo := NewAccountRepo(pool)
	batchRepo := NewBatchRepo(pool)
	ctx := context.Background()

	account := createTestAccount(t, accountRepo, "punter-1")
	batch, err := batchRepo.CreateWithBets(ctx, account.ID, nil, []domain.NewBet{
		{ID: 1, Selection: "home win", Stake: 5, Cost: 1.8},
	})
	require.NoError(t, err)

	require.NoError(t, accountRepo.Delete(ctx, account.ID))

	var batchCount, betCount int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM batches WHERE id = $1", batch.ID).Scan(&batchCount))
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM bets WHERE batch_id = $1", batch.ID).Scan(&betCount))
	assert.Zero(t, batchCount)
	assert.Zero(t, betCount)
}
