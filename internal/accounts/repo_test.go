package accounts

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/packfinderz-loyalty/pkg/db/models"
)

func newSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:accounts_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(models.All()...))
	return conn
}

func TestRepositoryFindMissingAccount(t *testing.T) {
	repo := NewRepository(newSQLite(t))

	account, err := repo.Find(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestRepositoryLockOrCreateSeedsZeroBalance(t *testing.T) {
	conn := newSQLite(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	customerID := uuid.New()

	var locked *models.PointsAccount
	err := conn.Transaction(func(tx *gorm.DB) error {
		var err error
		locked, err = repo.WithTx(tx).LockOrCreate(ctx, customerID)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, locked)
	assert.Equal(t, customerID, locked.CustomerID)
	assert.Zero(t, locked.AvailablePoints)

	again, err := repo.LockOrCreate(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, customerID, again.CustomerID)

	var count int64
	require.NoError(t, conn.Model(&models.PointsAccount{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRepositoryLockOrCreateKeepsExistingBalance(t *testing.T) {
	conn := newSQLite(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	customerID := uuid.New()

	require.NoError(t, conn.Create(&models.PointsAccount{CustomerID: customerID, AvailablePoints: 4500}).Error)

	account, err := repo.LockOrCreate(ctx, customerID)
	require.NoError(t, err)
	assert.EqualValues(t, 4500, account.AvailablePoints)
}

func TestRepositoryUpdateBalance(t *testing.T) {
	conn := newSQLite(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	customerID := uuid.New()

	err := repo.UpdateBalance(ctx, customerID, 10)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.LockOrCreate(ctx, customerID)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateBalance(ctx, customerID, 513))

	account, err := repo.Find(ctx, customerID)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.EqualValues(t, 513, account.AvailablePoints)
}

func TestRepositoryListAfterPagesEveryAccountOnce(t *testing.T) {
	conn := newSQLite(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, conn.Create(&models.PointsAccount{CustomerID: uuid.New(), AvailablePoints: int64(i)}).Error)
	}

	first, err := repo.ListAfter(ctx, uuid.Nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)

	rest, err := repo.ListAfter(ctx, first[1].CustomerID, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)

	seen := map[uuid.UUID]bool{}
	for _, account := range append(first, rest...) {
		seen[account.CustomerID] = true
	}
	assert.Len(t, seen, 3)

	empty, err := repo.ListAfter(ctx, rest[0].CustomerID, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
