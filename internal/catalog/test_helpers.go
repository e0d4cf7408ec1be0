package catalog

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gestorecommerce/catalog-backend/internal/siesa"
	"github.com/gestorecommerce/catalog-backend/internal/woo"
	"github.com/gestorecommerce/catalog-backend/pkg/db/models"
	"github.com/gestorecommerce/catalog-backend/pkg/logger"
	"github.com/gestorecommerce/catalog-backend/pkg/metrics"
)

type fakeProducts struct {
	mu            sync.Mutex
	rows          map[string]models.EcommerceProduct
	bulkCalls     int
	bulkErrOnCall int
	upsertCalls   int
	updateCalls   int
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{rows: map[string]models.EcommerceProduct{}}
}

func (f *fakeProducts) FindByItem(_ context.Context, item string) (*models.EcommerceProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[item]; ok {
		copied := row
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeProducts) ListAll(_ context.Context) ([]models.EcommerceProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.EcommerceProduct, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out, nil
}

func (f *fakeProducts) ListActivePage(_ context.Context, page, limit int, item string) ([]models.EcommerceProduct, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if page < 1 {
		page = 1
	}

	var matching []models.EcommerceProduct
	for _, row := range f.rows {
		if !row.EcommerceActive {
			continue
		}
		if item != "" && row.Item != item {
			continue
		}
		matching = append(matching, row)
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].Item < matching[j].Item })

	total := int64(len(matching))
	start := (page - 1) * limit
	if start >= len(matching) {
		return nil, total, nil
	}
	end := min(start+limit, len(matching))
	return matching[start:end], total, nil
}

func (f *fakeProducts) BulkUpsert(_ context.Context, rows []models.EcommerceProduct) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCalls++
	if f.bulkErrOnCall != 0 && f.bulkCalls == f.bulkErrOnCall {
		return fmt.Errorf("simulated bulk upsert failure")
	}
	for _, row := range rows {
		f.storeByWooID(row)
	}
	return nil
}

// storeByWooID mimics the on-conflict target: an existing row holding the
// same woo_product_id is refreshed in place, keeping its stored key.
func (f *fakeProducts) storeByWooID(row models.EcommerceProduct) {
	if row.WooProductID != nil {
		for key, existing := range f.rows {
			if existing.WooProductID != nil && *existing.WooProductID == *row.WooProductID {
				existing.WooStatus = row.WooStatus
				existing.EcommerceActive = row.EcommerceActive
				existing.ImageURL = row.ImageURL
				existing.WooName = row.WooName
				existing.LastSync = row.LastSync
				f.rows[key] = existing
				return
			}
		}
	}
	f.rows[row.Item] = row
}

func (f *fakeProducts) UpsertByItem(_ context.Context, row *models.EcommerceProduct) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	existing, ok := f.rows[row.Item]
	if ok {
		existing.WooProductID = row.WooProductID
		existing.WooStatus = row.WooStatus
		existing.EcommerceActive = row.EcommerceActive
		f.rows[row.Item] = existing
		return nil
	}
	f.rows[row.Item] = *row
	return nil
}

func (f *fakeProducts) UpdateByItem(_ context.Context, item string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	row, ok := f.rows[item]
	if !ok {
		return nil
	}
	applyUpdates(&row, updates)
	f.rows[item] = row
	return nil
}

func (f *fakeProducts) UpdateByWooID(_ context.Context, wooID int64, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	for key, row := range f.rows {
		if row.WooProductID != nil && *row.WooProductID == wooID {
			applyUpdates(&row, updates)
			f.rows[key] = row
			return nil
		}
	}
	return nil
}

func applyUpdates(row *models.EcommerceProduct, updates map[string]any) {
	if v, ok := updates["image_url"].(string); ok {
		row.ImageURL = &v
	}
	if v, ok := updates["woo_name"].(string); ok {
		row.WooName = &v
	}
	if v, ok := updates["ecommerce_active"].(bool); ok {
		row.EcommerceActive = v
	}
	if v, ok := updates["woo_status"].(string); ok {
		row.WooStatus = &v
	}
}

type fakeItems struct {
	items map[string]models.SiesaItem
}

func newFakeItems(items ...models.SiesaItem) *fakeItems {
	f := &fakeItems{items: map[string]models.SiesaItem{}}
	for _, item := range items {
		f.items[item.Item] = item
	}
	return f
}

func (f *fakeItems) FindByID(_ context.Context, item string) (*models.SiesaItem, error) {
	if it, ok := f.items[item]; ok {
		copied := it
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeItems) List(_ context.Context) ([]models.SiesaItem, error) {
	var out []models.SiesaItem
	for _, item := range f.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out, nil
}

func (f *fakeItems) SearchLike(_ context.Context, fragment string) ([]models.SiesaItem, error) {
	var out []models.SiesaItem
	for _, item := range f.items {
		if strings.Contains(item.Item, fragment) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out, nil
}

type fakeStorefront struct {
	mu          sync.Mutex
	pages       [][]woo.Product
	listErr     error
	prices      map[int64]woo.PriceInfo
	priceCalls  int
	searchBySKU map[string]*woo.Product
	searchCalls int
	searchErr   error
	nextID      int64
	created     []woo.ProductPayload
	createErr   error
	updated     map[int64][]woo.ProductPayload
	updateErr   error
}

func newFakeStorefront() *fakeStorefront {
	return &fakeStorefront{
		prices:      map[int64]woo.PriceInfo{},
		searchBySKU: map[string]*woo.Product{},
		updated:     map[int64][]woo.ProductPayload{},
		nextID:      9000,
	}
}

func (f *fakeStorefront) ListProducts(_ context.Context, params woo.ListProductsParams) ([]woo.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if params.Page < 1 || params.Page > len(f.pages) {
		return nil, nil
	}
	return f.pages[params.Page-1], nil
}

func (f *fakeStorefront) PricesByIDs(_ context.Context, ids []int64) (map[int64]woo.PriceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceCalls++
	out := map[int64]woo.PriceInfo{}
	for _, id := range ids {
		if info, ok := f.prices[id]; ok {
			out[id] = info
		}
	}
	return out, nil
}

func (f *fakeStorefront) SearchBySKU(_ context.Context, sku string) (*woo.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchBySKU[sku], nil
}

func (f *fakeStorefront) CreateProduct(_ context.Context, payload woo.ProductPayload) (*woo.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, payload)
	f.nextID++
	product := woo.Product{
		ID:     f.nextID,
		SKU:    payload.SKU,
		Name:   payload.Name,
		Status: payload.Status,
		Images: payload.Images,
	}
	return &product, nil
}

func (f *fakeStorefront) UpdateProduct(_ context.Context, id int64, payload woo.ProductPayload) (*woo.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated[id] = append(f.updated[id], payload)
	return &woo.Product{ID: id, Status: payload.Status}, nil
}

type fakeERP struct {
	mu        sync.Mutex
	prices    map[string]*siesa.Price
	priceErrs map[string]error
	stocks    map[string]siesa.Stock
	stockErrs map[string]error
}

func newFakeERP() *fakeERP {
	return &fakeERP{
		prices:    map[string]*siesa.Price{},
		priceErrs: map[string]error{},
		stocks:    map[string]siesa.Stock{},
		stockErrs: map[string]error{},
	}
}

func (f *fakeERP) GetLivePrice(_ context.Context, item, _ string) (*siesa.Price, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.priceErrs[item]; err != nil {
		return nil, err
	}
	return f.prices[item], nil
}

func (f *fakeERP) GetLiveStock(_ context.Context, item, _ string) (siesa.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.stockErrs[item]; err != nil {
		return siesa.Stock{}, err
	}
	return f.stocks[item], nil
}

type testEngine struct {
	svc      Service
	products *fakeProducts
	items    *fakeItems
	woo      *fakeStorefront
	erp      *fakeERP
}

func newTestEngine(t *testing.T, items ...models.SiesaItem) *testEngine {
	t.Helper()

	products := newFakeProducts()
	itemStore := newFakeItems(items...)
	storefront := newFakeStorefront()
	erp := newFakeERP()

	svc, err := NewService(products, itemStore, storefront, erp,
		metrics.NewSyncMetrics(nil),
		logger.New(logger.Options{Output: io.Discard}))
	require.NoError(t, err)

	return &testEngine{svc: svc, products: products, items: itemStore, woo: storefront, erp: erp}
}
