package mirror

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gestorecommerce/catalog-backend/pkg/db/models"
)

func setupMirrorTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	itemsSiesa := `
CREATE TABLE IF NOT EXISTS items_siesa (
  f120_id TEXT PRIMARY KEY,
  f120_descripcion TEXT,
  grupo TEXT,
  subgrupo TEXT,
  marca TEXT,
  activo INTEGER NOT NULL DEFAULT 0
);`
	ecommerceProducts := `
CREATE TABLE IF NOT EXISTS ecommerce_products (
  item TEXT PRIMARY KEY,
  woo_product_id INTEGER UNIQUE,
  woo_status TEXT,
  ecommerce_active INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  woo_name TEXT,
  last_sync DATETIME
);`
	require.NoError(t, db.Exec(itemsSiesa).Error)
	require.NoError(t, db.Exec(ecommerceProducts).Error)
	return db
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func mirrorRow(item string, wooID int64, active bool) models.EcommerceProduct {
	return models.EcommerceProduct{
		Item:            item,
		WooProductID:    int64Ptr(wooID),
		WooStatus:       strPtr("publish"),
		EcommerceActive: active,
		LastSync:        time.Now().UTC(),
	}
}

func TestFindByItemMissReturnsNil(t *testing.T) {
	repo := NewRepository(setupMirrorTestDB(t))

	row, err := repo.FindByItem(context.Background(), "MISSING")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestBulkUpsertRefreshesOnWooIDCollision(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupMirrorTestDB(t))

	require.NoError(t, repo.BulkUpsert(ctx, []models.EcommerceProduct{mirrorRow("A1", 100, true)}))

	updated := mirrorRow("A1", 100, false)
	updated.WooStatus = strPtr("draft")
	updated.WooName = strPtr("Martillo")
	require.NoError(t, repo.BulkUpsert(ctx, []models.EcommerceProduct{updated}))

	row, err := repo.FindByItem(ctx, "A1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "draft", *row.WooStatus)
	assert.False(t, row.EcommerceActive)
	require.NotNil(t, row.WooName)
	assert.Equal(t, "Martillo", *row.WooName)
}

func TestBulkUpsertEmptySliceIsNoop(t *testing.T) {
	repo := NewRepository(setupMirrorTestDB(t))
	require.NoError(t, repo.BulkUpsert(context.Background(), nil))
}

func TestListAllPagesThroughEverything(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupMirrorTestDB(t))

	rows := make([]models.EcommerceProduct, 0, 25)
	for i := 0; i < 25; i++ {
		rows = append(rows, mirrorRow(fmt.Sprintf("IT%03d", i), int64(1000+i), i%2 == 0))
	}
	require.NoError(t, repo.BulkUpsert(ctx, rows))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 25)
	assert.Equal(t, "IT000", all[0].Item)
}

func TestListActivePageFiltersAndCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupMirrorTestDB(t))

	require.NoError(t, repo.BulkUpsert(ctx, []models.EcommerceProduct{
		mirrorRow("A1", 1, true),
		mirrorRow("A2", 2, true),
		mirrorRow("A3", 3, false),
		mirrorRow("A4", 4, true),
	}))

	rows, total, err := repo.ListActivePage(ctx, 1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "A1", rows[0].Item)

	rows, total, err = repo.ListActivePage(ctx, 2, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "A4", rows[0].Item)

	rows, total, err = repo.ListActivePage(ctx, 1, 20, "A2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "A2", rows[0].Item)

	rows, total, err = repo.ListActivePage(ctx, 1, 20, "A3")
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, rows)
}

func TestUpsertByItemInsertsThenRefreshes(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupMirrorTestDB(t))

	first := mirrorRow("B1", 50, false)
	first.WooStatus = strPtr("draft")
	require.NoError(t, repo.UpsertByItem(ctx, &first))

	second := mirrorRow("B1", 50, true)
	require.NoError(t, repo.UpsertByItem(ctx, &second))

	row, err := repo.FindByItem(ctx, "B1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.True(t, row.EcommerceActive)
	assert.Equal(t, "publish", *row.WooStatus)
}

func TestUpdateByItemTouchesLastSync(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupMirrorTestDB(t))

	row := mirrorRow("C1", 60, true)
	row.LastSync = time.Now().UTC().Add(-24 * time.Hour)
	require.NoError(t, repo.BulkUpsert(ctx, []models.EcommerceProduct{row}))

	require.NoError(t, repo.UpdateByItem(ctx, "C1", map[string]any{"woo_name": "Taladro"}))

	got, err := repo.FindByItem(ctx, "C1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.WooName)
	assert.Equal(t, "Taladro", *got.WooName)
	assert.WithinDuration(t, time.Now().UTC(), got.LastSync, time.Minute)
}

func TestUpdateByWooID(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupMirrorTestDB(t))

	require.NoError(t, repo.BulkUpsert(ctx, []models.EcommerceProduct{mirrorRow("D1", 70, true)}))
	require.NoError(t, repo.UpdateByWooID(ctx, 70, map[string]any{
		"woo_status":       "draft",
		"ecommerce_active": false,
	}))

	got, err := repo.FindByItem(ctx, "D1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "draft", *got.WooStatus)
	assert.False(t, got.EcommerceActive)
}

func TestItemsListAndFind(t *testing.T) {
	ctx := context.Background()
	db := setupMirrorTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, db.Create(&models.SiesaItem{Item: "00123", Description: "Tornillo", Brand: "ACME", Active: true}).Error)
	require.NoError(t, db.Create(&models.SiesaItem{Item: "00124", Description: "Tuerca", Active: false}).Error)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "00123", items[0].Item)
	assert.True(t, items[0].Active)
	assert.Equal(t, "00124", items[1].Item)
	assert.False(t, items[1].Active)

	item, err := repo.FindByID(ctx, "00124")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Tuerca", item.Description)

	missing, err := repo.FindByID(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSearchLikeFindsNearMisses(t *testing.T) {
	ctx := context.Background()
	db := setupMirrorTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, db.Create(&models.SiesaItem{Item: "00123", Active: true}).Error)
	require.NoError(t, db.Create(&models.SiesaItem{Item: "123", Active: true}).Error)
	require.NoError(t, db.Create(&models.SiesaItem{Item: "99999", Active: true}).Error)

	rows, err := repo.SearchLike(ctx, "123")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
