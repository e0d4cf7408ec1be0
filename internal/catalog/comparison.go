package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestorecommerce/catalog-backend/internal/siesa"
	"github.com/gestorecommerce/catalog-backend/internal/woo"
	"github.com/gestorecommerce/catalog-backend/pkg/db/models"
)

// compareBatchSize caps concurrent ERP look-ups. The ERP integration layer
// starts returning 429 well below ten concurrent queries.
const compareBatchSize = 5

// compareBatchPause is the mandatory rest between ERP batches.
var compareBatchPause = time.Second

// LiveComparison builds one page of side-by-side price and stock rows for
// active mirror items. Storefront numbers come from a single batch request;
// ERP numbers are fetched live per item, five at a time with a pause between
// batches. A single item's ERP failure degrades that row to "not found"
// instead of aborting the page.
func (s *service) LiveComparison(ctx context.Context, input LiveComparisonInput) (*LiveComparisonResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("compare", time.Since(start)) }()

	ctx = s.logger.WithSede(ctx, input.Sede)
	targetList := siesa.ListForSede(input.Sede)

	rows, total, err := s.products.ListActivePage(ctx, input.Page, input.Limit, strings.TrimSpace(input.Item))
	if err != nil {
		return nil, err
	}
	result := &LiveComparisonResult{Total: total, Rows: []LiveComparisonRow{}}
	if len(rows) == 0 {
		return result, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		if row.WooProductID != nil {
			ids = append(ids, *row.WooProductID)
		}
	}
	storefront, err := s.woo.PricesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]LiveComparisonRow, len(rows))
	for batchStart := 0; batchStart < len(rows); batchStart += compareBatchSize {
		batchEnd := min(batchStart+compareBatchSize, len(rows))

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				out[i] = s.compareItem(ctx, rows[i], targetList, input.Sede, storefront)
			}(i)
		}
		wg.Wait()

		if batchEnd < len(rows) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(compareBatchPause):
			}
		}
	}

	for _, row := range out {
		s.metrics.IncCompared(row.PriceStatus)
	}
	result.Rows = out
	return result, nil
}

func (s *service) compareItem(ctx context.Context, row models.EcommerceProduct, targetList, sede string, storefront map[int64]woo.PriceInfo) LiveComparisonRow {
	ctx = s.logger.WithItem(ctx, row.Item)

	var (
		price *siesa.Price
		stock siesa.Stock
		wg    sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		p, err := s.erp.GetLivePrice(ctx, row.Item, targetList)
		if err != nil {
			s.logger.Warn(ctx, "live price fetch failed: "+err.Error())
			return
		}
		price = p
	}()
	go func() {
		defer wg.Done()
		st, err := s.erp.GetLiveStock(ctx, row.Item, sede)
		if err != nil {
			s.logger.Warn(ctx, "live stock fetch failed: "+err.Error())
			return
		}
		stock = st
	}()
	wg.Wait()

	out := LiveComparisonRow{
		Item:           row.Item,
		WooProductID:   row.WooProductID,
		StockAvailable: stock.Available,
		StockOnHand:    stock.OnHand,
		StockCommitted: stock.Committed,
	}

	if price != nil && price.Amount.IsPositive() {
		amount := price.Amount
		unit := price.Unit
		out.SiesaPrice = &amount
		out.Unit = &unit
	}

	var wooPrice *decimal.Decimal
	if row.WooProductID != nil {
		if info, ok := storefront[*row.WooProductID]; ok {
			p := info.Price
			wooPrice = &p
			out.WooStock = info.Stock
		}
	}
	out.WooPrice = wooPrice

	switch {
	case out.SiesaPrice == nil:
		out.PriceStatus = PriceStatusNotInERP
	case wooPrice == nil:
		out.PriceStatus = PriceStatusNotInStorefront
	default:
		diff := out.SiesaPrice.Sub(*wooPrice)
		out.PriceDiff = &diff
		if diff.IsZero() {
			out.PriceStatus = PriceStatusOK
		} else {
			out.PriceStatus = PriceStatusDifferent
		}
	}
	return out
}
