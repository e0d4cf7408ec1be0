package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gestorecommerce/catalog-backend/internal/siesa"
	"github.com/gestorecommerce/catalog-backend/internal/woo"
	"github.com/gestorecommerce/catalog-backend/pkg/db/models"
	pkgerrors "github.com/gestorecommerce/catalog-backend/pkg/errors"
)

// New products are born against the main branch so they carry a real price
// and stock from the first second.
const (
	defaultSede      = "PV001"
	defaultPriceList = "P01"
)

// CreateStorefrontProduct publishes a new product. Live ERP stock and price
// for the default branch are pre-fetched best-effort; when the ERP does not
// answer, the caller's values stand. After the storefront accepts the
// product, the mirror row is linked to it.
func (s *service) CreateStorefrontProduct(ctx context.Context, input CreateProductInput) (*woo.Product, error) {
	input.SKU = strings.TrimSpace(input.SKU)
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	ctx = s.logger.WithItem(ctx, input.SKU)

	initialPrice := input.Price
	var initialStock float64

	var (
		wg        sync.WaitGroup
		liveStock siesa.Stock
		livePrice *siesa.Price
		stockErr  error
		priceErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		liveStock, stockErr = s.erp.GetLiveStock(ctx, input.SKU, defaultSede)
	}()
	go func() {
		defer wg.Done()
		livePrice, priceErr = s.erp.GetLivePrice(ctx, input.SKU, defaultPriceList)
	}()
	wg.Wait()

	if stockErr != nil {
		s.logger.Warn(ctx, "erp stock pre-fetch failed, product starts at zero stock: "+stockErr.Error())
	} else {
		initialStock = liveStock.Available
	}
	if priceErr != nil {
		s.logger.Warn(ctx, "erp price pre-fetch failed, keeping submitted price: "+priceErr.Error())
	} else if livePrice != nil {
		amount := livePrice.Amount
		initialPrice = &amount
	}

	manage := true
	payload := woo.ProductPayload{
		Name:              input.Name,
		Type:              "simple",
		Status:            "publish",
		CatalogVisibility: "visible",
		SKU:               input.SKU,
		Description:       input.Description,
		ShortDescription:  input.ShortDescription,
		ManageStock:       &manage,
		StockQuantity:     &initialStock,
	}
	if initialPrice != nil && initialPrice.IsPositive() {
		payload.RegularPrice = initialPrice.String()
	}

	images := input.Images
	if len(images) == 0 && input.ImageURL != "" {
		images = []string{input.ImageURL}
	}
	payload.SetImages(images)
	payload.Categories = woo.TermRefs(input.Categories)
	payload.Tags = woo.TermRefs(input.Tags)
	payload.Brands = woo.TermRefs(input.Brands)

	product, err := s.woo.CreateProduct(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, fmt.Sprintf("storefront product %d created", product.ID))

	status := "publish"
	wooID := product.ID
	if err := s.products.UpsertByItem(ctx, &models.EcommerceProduct{
		Item:            input.SKU,
		WooProductID:    &wooID,
		WooStatus:       &status,
		EcommerceActive: true,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "linking created product in mirror failed")
	}

	if url := firstNonBlank(product.FirstImageURL(), strings.TrimSpace(input.ImageURL)); url != "" {
		if err := s.products.UpdateByItem(ctx, input.SKU, map[string]any{"image_url": url}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "caching product image in mirror failed")
		}
	}
	return product, nil
}

// UpdateStorefrontProduct applies a partial edit. The storefront write runs
// first; a rejection surfaces with the storefront's message and leaves the
// mirror untouched. On success a reduced subset (first image, name, active
// flag with its derived status) lands in the mirror.
func (s *service) UpdateStorefrontProduct(ctx context.Context, wooID int64, input UpdateProductInput) error {
	if wooID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "storefront product id is required")
	}

	payload := woo.ProductPayload{}
	if input.Name != nil {
		payload.Name = *input.Name
	}
	if input.Price != nil {
		payload.RegularPrice = input.Price.String()
	}
	if input.StockQuantity != nil {
		manage := true
		payload.ManageStock = &manage
		payload.StockQuantity = input.StockQuantity
	}

	images := input.Images
	if len(images) == 0 && input.ImageURL != "" {
		images = []string{input.ImageURL}
	}
	payload.SetImages(images)
	payload.Categories = woo.TermRefs(input.Categories)
	payload.Tags = woo.TermRefs(input.Tags)
	payload.Brands = woo.TermRefs(input.Brands)

	if _, err := s.woo.UpdateProduct(ctx, wooID, payload); err != nil {
		return err
	}

	updates := map[string]any{}
	if len(payload.Images) > 0 {
		updates["image_url"] = payload.Images[0].Src
	}
	if input.Name != nil {
		updates["woo_name"] = *input.Name
	}
	if input.Active != nil {
		status := "draft"
		if *input.Active {
			status = "publish"
		}
		updates["ecommerce_active"] = *input.Active
		updates["woo_status"] = status
	}
	if len(updates) == 0 {
		return nil
	}
	if err := s.products.UpdateByWooID(ctx, wooID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording product edit in mirror failed")
	}
	return nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
