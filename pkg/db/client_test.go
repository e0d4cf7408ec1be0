package db

import (
	"context"
	"errors"
	"testing"

	"github.com/gestorecommerce/catalog-backend/pkg/config"
	"github.com/gestorecommerce/catalog-backend/pkg/db/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openSQLiteClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), config.DBConfig{
		DSN:    "file::memory:?cache=shared",
		Driver: "sqlite",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(&models.EcommerceProduct{}))
	return client
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{}, nil)
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	client := openSQLiteClient(t)
	require.NoError(t, client.Ping(context.Background()))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := openSQLiteClient(t)
	ctx := context.Background()

	sentinel := errors.New("abort")
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		row := &models.EcommerceProduct{Item: "TX-1"}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var count int64
	require.NoError(t, client.DB().Model(&models.EcommerceProduct{}).Where("item = ?", "TX-1").Count(&count).Error)
	require.Zero(t, count)
}
