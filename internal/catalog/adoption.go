package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/gestorecommerce/catalog-backend/internal/woo"
	"github.com/gestorecommerce/catalog-backend/pkg/db/models"
)

const adoptionPageSize = 100

// adoptionFields keeps adoption pages small: the scan only needs identity,
// lifecycle state, the first image, and the display name.
var adoptionFields = []string{"id", "sku", "status", "images", "name"}

// AdoptStorefrontProducts scans every storefront product, any status, and
// bulk-upserts the mirror keyed by woo_product_id. Products without a SKU
// fall back to their storefront ID as mirror key and are counted as linkage
// risks. A failing batch is logged and skipped, never fatal.
func (s *service) AdoptStorefrontProducts(ctx context.Context) (*AdoptionReport, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("adopt", time.Since(start)) }()

	s.logger.Info(ctx, "starting storefront adoption scan")

	report := &AdoptionReport{}
	var batchErrs error

	for page := 1; ; page++ {
		products, err := s.woo.ListProducts(ctx, woo.ListProductsParams{
			Page:    page,
			PerPage: adoptionPageSize,
			Fields:  adoptionFields,
		})
		if err != nil {
			return nil, err
		}
		if len(products) == 0 {
			break
		}
		report.Pages++

		now := time.Now().UTC()
		rows := make([]models.EcommerceProduct, 0, len(products))
		for _, p := range products {
			key := strings.TrimSpace(p.SKU)
			if key == "" {
				key = strconv.FormatInt(p.ID, 10)
				report.MissingSKU++
			}

			wooID := p.ID
			status := p.Status
			row := models.EcommerceProduct{
				Item:            key,
				WooProductID:    &wooID,
				WooStatus:       &status,
				EcommerceActive: p.Status == "publish",
				LastSync:        now,
			}
			if url := p.FirstImageURL(); url != "" {
				row.ImageURL = &url
			}
			if p.Name != "" {
				name := p.Name
				row.WooName = &name
			}
			rows = append(rows, row)
		}

		if err := s.products.BulkUpsert(ctx, rows); err != nil {
			report.FailedBatches++
			s.metrics.IncFailedBatch()
			batchErrs = multierr.Append(batchErrs, fmt.Errorf("adoption page %d: %w", page, err))
		} else {
			report.Processed += len(rows)
			s.metrics.AddAdopted(len(rows))
		}

		if len(products) < adoptionPageSize {
			break
		}
	}

	s.metrics.AddMissingSKU(report.MissingSKU)
	if report.MissingSKU > 0 {
		s.logger.Warn(ctx, fmt.Sprintf("%d storefront products without sku adopted by product id", report.MissingSKU))
	}
	if batchErrs != nil {
		s.logger.Error(ctx, "some adoption batches failed", batchErrs)
	}

	s.logger.Info(ctx, fmt.Sprintf("adoption finished: %d products over %d pages", report.Processed, report.Pages))
	return report, nil
}
