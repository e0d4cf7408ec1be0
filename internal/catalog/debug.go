package catalog

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/gestorecommerce/catalog-backend/pkg/errors"
)

// DebugSKU inspects one SKU across the three systems and states a verdict.
// Meant for operators chasing "why is this item not linked" tickets.
func (s *service) DebugSKU(ctx context.Context, rawSKU string) (*SKUReport, error) {
	checked := strings.TrimSpace(rawSKU)
	if checked == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	ctx = s.logger.WithItem(ctx, checked)

	report := &SKUReport{CheckedSKU: checked}

	candidates, err := s.items.SearchLike(ctx, checked)
	if err != nil {
		return nil, err
	}
	report.ERP.Candidates = make([]string, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.Item) == checked {
			report.ERP.FoundExact = true
		}
		report.ERP.Candidates = append(report.ERP.Candidates, fmt.Sprintf("[%s] len=%d", c.Item, len(c.Item)))
	}

	row, err := s.products.FindByItem(ctx, checked)
	if err != nil {
		return nil, err
	}
	if row != nil {
		report.Mirror = &SKUReportMirror{
			Item:            row.Item,
			WooProductID:    row.WooProductID,
			EcommerceActive: row.EcommerceActive,
		}
	}

	product, err := s.woo.SearchBySKU(ctx, checked)
	if err != nil {
		s.logger.Warn(ctx, "storefront lookup failed during sku diagnosis: "+err.Error())
	} else if product != nil {
		report.Storefront = &SKUReportProduct{
			ID:     product.ID,
			SKU:    product.SKU,
			Status: product.Status,
			Name:   product.Name,
		}
	}

	switch {
	case report.Storefront != nil && (report.Mirror == nil || report.Mirror.WooProductID == nil):
		report.Conclusion = "product exists in the storefront but the mirror has no link; run an adoption scan"
	case report.Storefront == nil:
		report.Conclusion = "no storefront product matches this exact sku"
	default:
		report.Conclusion = "sku appears linked; check for whitespace or leading-zero drift in the candidates"
	}
	return report, nil
}
