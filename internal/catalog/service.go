package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gestorecommerce/catalog-backend/internal/mirror"
	"github.com/gestorecommerce/catalog-backend/internal/siesa"
	"github.com/gestorecommerce/catalog-backend/internal/woo"
	"github.com/gestorecommerce/catalog-backend/pkg/db/models"
	pkgerrors "github.com/gestorecommerce/catalog-backend/pkg/errors"
	"github.com/gestorecommerce/catalog-backend/pkg/logger"
	"github.com/gestorecommerce/catalog-backend/pkg/metrics"
	"github.com/gestorecommerce/catalog-backend/pkg/sku"
)

// StorefrontClient is the slice of the WooCommerce client the engine needs.
type StorefrontClient interface {
	ListProducts(ctx context.Context, params woo.ListProductsParams) ([]woo.Product, error)
	PricesByIDs(ctx context.Context, ids []int64) (map[int64]woo.PriceInfo, error)
	SearchBySKU(ctx context.Context, sku string) (*woo.Product, error)
	CreateProduct(ctx context.Context, payload woo.ProductPayload) (*woo.Product, error)
	UpdateProduct(ctx context.Context, id int64, payload woo.ProductPayload) (*woo.Product, error)
}

// ERPClient is the slice of the SIESA client the engine needs.
type ERPClient interface {
	GetLivePrice(ctx context.Context, item, targetList string) (*siesa.Price, error)
	GetLiveStock(ctx context.Context, item, sede string) (siesa.Stock, error)
}

// Service exposes the catalog reconciliation operations.
type Service interface {
	UnifiedCatalog(ctx context.Context) (*UnifiedCatalog, error)
	AdoptStorefrontProducts(ctx context.Context) (*AdoptionReport, error)
	ToggleActivation(ctx context.Context, item string, active bool) (*ToggleResult, error)
	LiveComparison(ctx context.Context, input LiveComparisonInput) (*LiveComparisonResult, error)
	CreateStorefrontProduct(ctx context.Context, input CreateProductInput) (*woo.Product, error)
	UpdateStorefrontProduct(ctx context.Context, wooID int64, input UpdateProductInput) error
	DebugSKU(ctx context.Context, rawSKU string) (*SKUReport, error)
}

type service struct {
	products mirror.ProductRepository
	items    mirror.ItemRepository
	woo      StorefrontClient
	erp      ERPClient
	metrics  *metrics.SyncMetrics
	logger   *logger.Logger
}

// NewService constructs the reconciliation engine.
func NewService(products mirror.ProductRepository, items mirror.ItemRepository, wooClient StorefrontClient, erpClient ERPClient, m *metrics.SyncMetrics, logg *logger.Logger) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if wooClient == nil {
		return nil, fmt.Errorf("storefront client required")
	}
	if erpClient == nil {
		return nil, fmt.Errorf("erp client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		products: products,
		items:    items,
		woo:      wooClient,
		erp:      erpClient,
		metrics:  m,
		logger:   logg,
	}, nil
}

// UnifiedCatalog joins the complete ERP item set with the mirror, inactive
// items included. The ERP is authoritative for existence: mirror rows
// without a live ERP item do not appear here.
func (s *service) UnifiedCatalog(ctx context.Context) (*UnifiedCatalog, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("unify", time.Since(start)) }()

	items, err := s.items.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading erp items failed")
	}
	mirrorRows, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading mirror rows failed")
	}

	index := sku.NewIndex[*models.EcommerceProduct](len(mirrorRows))
	for i := range mirrorRows {
		index.Add(mirrorRows[i].Item, &mirrorRows[i])
	}

	entries := make([]UnifiedEntry, 0, len(items))
	for _, item := range items {
		key := strings.TrimSpace(item.Item)
		entry := UnifiedEntry{
			Item:        key,
			Description: item.Description,
			Brand:       item.Brand,
			Group:       item.Group,
			Subgroup:    item.Subgroup,
			Active:      item.Active,
		}
		if row, ok := index.Lookup(key); ok {
			entry.ExistsInStorefront = true
			entry.WooProductID = row.WooProductID
			entry.WooStatus = row.WooStatus
			entry.EcommerceActive = row.EcommerceActive
			entry.ImageURL = row.ImageURL
			if row.WooName != nil && *row.WooName != "" {
				entry.Description = *row.WooName
			}
		}
		entries = append(entries, entry)
	}

	s.logger.Info(ctx, fmt.Sprintf("unified catalog built with %d items", len(entries)))
	return &UnifiedCatalog{Total: len(entries), Entries: entries}, nil
}

// ToggleActivation flips an item's visibility. The storefront mutation always
// runs before the mirror write; a storefront failure leaves the mirror
// untouched so local state never gets ahead of the external system.
func (s *service) ToggleActivation(ctx context.Context, item string, active bool) (*ToggleResult, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item is required")
	}
	ctx = s.logger.WithItem(ctx, item)

	status := "draft"
	if active {
		status = "publish"
	}

	row, err := s.products.FindByItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading mirror row failed")
	}

	var wooID int64
	if row != nil && row.WooProductID != nil {
		wooID = *row.WooProductID
	}

	created := false
	if wooID == 0 {
		found, err := s.woo.SearchBySKU(ctx, item)
		if err != nil {
			return nil, err
		}
		if found != nil {
			wooID = found.ID
			s.logger.Info(ctx, fmt.Sprintf("adopting existing storefront product %d by sku", wooID))
		} else {
			erpItem, err := s.items.FindByID(ctx, item)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading erp item failed")
			}
			if erpItem == nil {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("item %s not found in the erp catalog", item))
			}

			manage := true
			zero := 0.0
			product, err := s.woo.CreateProduct(ctx, woo.ProductPayload{
				Name:          erpItem.Description,
				SKU:           item,
				Status:        status,
				ManageStock:   &manage,
				StockQuantity: &zero,
			})
			if err != nil {
				return nil, err
			}
			wooID = product.ID
			created = true
			s.logger.Info(ctx, fmt.Sprintf("created storefront product %d", wooID))
		}
	}

	if !created {
		if _, err := s.woo.UpdateProduct(ctx, wooID, woo.ProductPayload{Status: status}); err != nil {
			return nil, err
		}
	}

	if err := s.products.UpsertByItem(ctx, &models.EcommerceProduct{
		Item:            item,
		WooProductID:    &wooID,
		WooStatus:       &status,
		EcommerceActive: active,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording toggle in mirror failed")
	}

	return &ToggleResult{Created: created, WooProductID: wooID, Active: active}, nil
}
