package models

import "time"

// EcommerceProduct is the reconciliation ledger row linking an ERP item key
// to a WooCommerce product. Rows are never deleted; they hold the last known
// storefront state until the next sync refreshes them.
//
// The stored Item is the key as first seen (trimmed SKU or Woo product ID),
// never normalized. Normalization happens at lookup time only.
type EcommerceProduct struct {
	Item            string    `gorm:"column:item;primaryKey"`
	WooProductID    *int64    `gorm:"column:woo_product_id;uniqueIndex:ux_ecommerce_products_woo_product_id"`
	WooStatus       *string   `gorm:"column:woo_status"`
	EcommerceActive bool      `gorm:"column:ecommerce_active;not null;default:false"`
	ImageURL        *string   `gorm:"column:image_url"`
	WooName         *string   `gorm:"column:woo_name"`
	LastSync        time.Time `gorm:"column:last_sync"`
}

func (EcommerceProduct) TableName() string { return "ecommerce_products" }
