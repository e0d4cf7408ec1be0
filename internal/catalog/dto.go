package catalog

import (
	"github.com/shopspring/decimal"
)

// Price comparison verdicts for the live comparison view.
const (
	PriceStatusOK              = "OK"
	PriceStatusDifferent       = "DIFFERENT"
	PriceStatusNotInERP        = "NOT_IN_ERP"
	PriceStatusNotInStorefront = "NOT_IN_STOREFRONT"
)

// UnifiedEntry is one ERP item joined with its storefront mirror state. The
// JSON keys keep the Spanish column names the ERP export uses so the catalog
// view reads the same as the source tables.
type UnifiedEntry struct {
	Item               string  `json:"item"`
	Description        string  `json:"descripcion"`
	Brand              string  `json:"marca"`
	Group              string  `json:"grupo"`
	Subgroup           string  `json:"subgrupo"`
	Active             bool    `json:"activo"`
	ExistsInStorefront bool    `json:"exists_in_woo"`
	WooProductID       *int64  `json:"woo_product_id"`
	WooStatus          *string `json:"woo_status"`
	EcommerceActive    bool    `json:"ecommerce_active"`
	ImageURL           *string `json:"image_url"`
}

// UnifiedCatalog is the full reconciled catalog.
type UnifiedCatalog struct {
	Total   int            `json:"total"`
	Entries []UnifiedEntry `json:"data"`
}

// AdoptionReport summarizes a full storefront adoption run.
type AdoptionReport struct {
	Processed     int `json:"processed"`
	Pages         int `json:"pages"`
	MissingSKU    int `json:"missing_sku"`
	FailedBatches int `json:"failed_batches"`
}

// ToggleResult reports what an activation toggle did.
type ToggleResult struct {
	Created      bool  `json:"created"`
	WooProductID int64 `json:"woo_product_id"`
	Active       bool  `json:"active"`
}

// LiveComparisonInput narrows a comparison run to one warehouse and a page of
// active products. Item optionally pins the page to a single stored key.
type LiveComparisonInput struct {
	Sede  string
	Page  int
	Limit int
	Item  string
}

// LiveComparisonRow is one product's side-by-side state: live ERP price and
// stock against the storefront's current numbers.
type LiveComparisonRow struct {
	Item           string           `json:"item"`
	WooProductID   *int64           `json:"woo_product_id"`
	WooPrice       *decimal.Decimal `json:"woo_price"`
	WooStock       *float64         `json:"woo_stock"`
	SiesaPrice     *decimal.Decimal `json:"siesa_price"`
	Unit           *string          `json:"unidad"`
	PriceDiff      *decimal.Decimal `json:"price_diff"`
	PriceStatus    string           `json:"price_status"`
	StockAvailable float64          `json:"stock_disponible"`
	StockOnHand    float64          `json:"stock_existencia"`
	StockCommitted float64          `json:"stock_comprometido"`
}

// LiveComparisonResult is one page of comparison rows plus the total count of
// active products matching the filter.
type LiveComparisonResult struct {
	Total int64               `json:"total"`
	Rows  []LiveComparisonRow `json:"data"`
}

// CreateProductInput holds the validated payload to publish a new product.
type CreateProductInput struct {
	SKU              string
	Name             string
	Description      string
	ShortDescription string
	Price            *decimal.Decimal
	ImageURL         string
	Images           []string
	Categories       []int64
	Tags             []int64
	Brands           []int64
}

// UpdateProductInput holds optional mutation values for an existing product.
// Nil fields stay untouched.
type UpdateProductInput struct {
	Name          *string
	Price         *decimal.Decimal
	StockQuantity *float64
	Active        *bool
	ImageURL      string
	Images        []string
	Categories    []int64
	Tags          []int64
	Brands        []int64
}

// SKUReport is the diagnosis of one SKU across the three systems.
type SKUReport struct {
	CheckedSKU string            `json:"checked_sku"`
	ERP        SKUReportERP      `json:"siesa"`
	Mirror     *SKUReportMirror  `json:"supabase_map"`
	Storefront *SKUReportProduct `json:"woocommerce"`
	Conclusion string            `json:"conclusion"`
}

// SKUReportERP lists the exact-match verdict and near-miss candidate keys.
type SKUReportERP struct {
	FoundExact bool     `json:"found_exact"`
	Candidates []string `json:"candidates"`
}

// SKUReportMirror is the mirror row of the diagnosed SKU.
type SKUReportMirror struct {
	Item            string `json:"item"`
	WooProductID    *int64 `json:"woo_product_id"`
	EcommerceActive bool   `json:"ecommerce_active"`
}

// SKUReportProduct is the storefront product found by exact SKU.
type SKUReportProduct struct {
	ID     int64  `json:"id"`
	SKU    string `json:"sku"`
	Status string `json:"status"`
	Name   string `json:"name"`
}
