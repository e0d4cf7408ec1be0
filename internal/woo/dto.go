package woo

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TermRef is a category, tag, or brand reference on a product.
type TermRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// Image is a product image. Only the source URL matters on writes.
type Image struct {
	ID  int64  `json:"id,omitempty"`
	Src string `json:"src"`
}

// Product is a storefront product as the REST API returns it. Prices arrive
// as strings.
type Product struct {
	ID            int64     `json:"id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	Price         string    `json:"price"`
	RegularPrice  string    `json:"regular_price"`
	StockQuantity *float64  `json:"stock_quantity"`
	StockStatus   string    `json:"stock_status"`
	ManageStock   bool      `json:"manage_stock"`
	Images        []Image   `json:"images"`
	Categories    []TermRef `json:"categories"`
	Tags          []TermRef `json:"tags"`
	Brands        []TermRef `json:"brands"`
}

// FirstImageURL returns the primary image URL or empty.
func (p Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return strings.TrimSpace(p.Images[0].Src)
}

// EffectivePrice prefers the current price and falls back to the regular
// price. Both blank yields zero.
func (p Product) EffectivePrice() decimal.Decimal {
	if price, err := decimal.NewFromString(strings.TrimSpace(p.Price)); err == nil && !price.IsZero() {
		return price
	}
	if price, err := decimal.NewFromString(strings.TrimSpace(p.RegularPrice)); err == nil {
		return price
	}
	return decimal.Zero
}

// PriceInfo is the projected price and stock of one product, used by the
// batch price lookup.
type PriceInfo struct {
	Price decimal.Decimal
	Stock *float64
}

// ProductPayload is the write shape for product create and update calls.
// Zero-value fields stay off the wire so partial updates only touch what the
// caller set.
type ProductPayload struct {
	Name              string    `json:"name,omitempty"`
	Type              string    `json:"type,omitempty"`
	Status            string    `json:"status,omitempty"`
	CatalogVisibility string    `json:"catalog_visibility,omitempty"`
	SKU               string    `json:"sku,omitempty"`
	Description       string    `json:"description,omitempty"`
	ShortDescription  string    `json:"short_description,omitempty"`
	ManageStock       *bool     `json:"manage_stock,omitempty"`
	StockQuantity     *float64  `json:"stock_quantity,omitempty"`
	RegularPrice      string    `json:"regular_price,omitempty"`
	Images            []Image   `json:"images,omitempty"`
	Categories        []TermRef `json:"categories,omitempty"`
	Tags              []TermRef `json:"tags,omitempty"`
	Brands            []TermRef `json:"brands,omitempty"`
}

// SetImages filters out blank URLs before attaching images. The storefront
// rejects the whole write when an image src is empty.
func (p *ProductPayload) SetImages(urls []string) {
	images := make([]Image, 0, len(urls))
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		images = append(images, Image{Src: url})
	}
	if len(images) > 0 {
		p.Images = images
	}
}

// TermRefs converts plain IDs into the reference objects the API expects.
func TermRefs(ids []int64) []TermRef {
	if len(ids) == 0 {
		return nil
	}
	refs := make([]TermRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, TermRef{ID: id})
	}
	return refs
}

// Term is a standalone taxonomy term (category, tag, or brand).
type Term struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Parent int64  `json:"parent"`
	Count  int64  `json:"count"`
}

// TermInput creates a taxonomy term.
type TermInput struct {
	Name   string `json:"name"`
	Slug   string `json:"slug,omitempty"`
	Parent int64  `json:"parent,omitempty"`
}

// SalesReport is the aggregated sales summary for a period.
type SalesReport struct {
	TotalSales   string `json:"total_sales"`
	NetSales     string `json:"net_sales"`
	AverageSales string `json:"average_sales"`
	TotalOrders  int64  `json:"total_orders"`
	TotalItems   int64  `json:"total_items"`
}
