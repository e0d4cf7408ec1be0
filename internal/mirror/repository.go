package mirror

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gestorecommerce/catalog-backend/pkg/db/models"
)

// fetchPageSize bounds reads of the full mirror so large catalogs never load
// in a single query.
const fetchPageSize = 1000

// ProductRepository exposes persistence for the storefront mirror rows.
type ProductRepository interface {
	FindByItem(ctx context.Context, item string) (*models.EcommerceProduct, error)
	ListAll(ctx context.Context) ([]models.EcommerceProduct, error)
	ListActivePage(ctx context.Context, page, limit int, item string) ([]models.EcommerceProduct, int64, error)
	BulkUpsert(ctx context.Context, rows []models.EcommerceProduct) error
	UpsertByItem(ctx context.Context, row *models.EcommerceProduct) error
	UpdateByItem(ctx context.Context, item string, updates map[string]any) error
	UpdateByWooID(ctx context.Context, wooID int64, updates map[string]any) error
}

// ItemRepository exposes read access to the ERP item cache.
type ItemRepository interface {
	FindByID(ctx context.Context, item string) (*models.SiesaItem, error)
	List(ctx context.Context) ([]models.SiesaItem, error)
	SearchLike(ctx context.Context, fragment string) ([]models.SiesaItem, error)
}

// Repository wires both mirror tables onto one GORM connection.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByItem loads one mirror row by its stored key. A miss returns nil
// without an error.
func (r *Repository) FindByItem(ctx context.Context, item string) (*models.EcommerceProduct, error) {
	var row models.EcommerceProduct
	err := r.db.WithContext(ctx).First(&row, "item = ?", item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListAll reads the entire mirror in fixed-size ranges ordered by item key.
func (r *Repository) ListAll(ctx context.Context) ([]models.EcommerceProduct, error) {
	var all []models.EcommerceProduct
	for offset := 0; ; offset += fetchPageSize {
		var page []models.EcommerceProduct
		err := r.db.WithContext(ctx).
			Order("item ASC").
			Offset(offset).
			Limit(fetchPageSize).
			Find(&page).Error
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < fetchPageSize {
			return all, nil
		}
	}
}

// ListActivePage returns one page of active mirror rows plus the total count
// of active rows matching the filter. A non-empty item narrows the page to
// that exact stored key.
func (r *Repository) ListActivePage(ctx context.Context, page, limit int, item string) ([]models.EcommerceProduct, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := r.db.WithContext(ctx).
		Model(&models.EcommerceProduct{}).
		Where("ecommerce_active = ?", true)
	if item != "" {
		query = query.Where("item = ?", item)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EcommerceProduct
	err := query.
		Order("item ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// BulkUpsert inserts the rows, refreshing storefront state on collision with
// an already-adopted woo_product_id.
func (r *Repository) BulkUpsert(ctx context.Context, rows []models.EcommerceProduct) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "woo_product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"woo_status", "ecommerce_active", "image_url", "woo_name", "last_sync",
			}),
		}).
		Create(&rows).Error
}

// UpsertByItem inserts or refreshes one row keyed by item.
func (r *Repository) UpsertByItem(ctx context.Context, row *models.EcommerceProduct) error {
	if row.LastSync.IsZero() {
		row.LastSync = time.Now().UTC()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"woo_product_id", "woo_status", "ecommerce_active", "last_sync",
			}),
		}).
		Create(row).Error
}

// UpdateByItem applies a partial update to one row by stored key.
func (r *Repository) UpdateByItem(ctx context.Context, item string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["last_sync"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.EcommerceProduct{}).
		Where("item = ?", item).
		Updates(updates).Error
}

// UpdateByWooID applies a partial update to the row linked to a storefront
// product.
func (r *Repository) UpdateByWooID(ctx context.Context, wooID int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["last_sync"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.EcommerceProduct{}).
		Where("woo_product_id = ?", wooID).
		Updates(updates).Error
}

// FindByID loads one ERP item by key. A miss returns nil without an error.
func (r *Repository) FindByID(ctx context.Context, item string) (*models.SiesaItem, error) {
	var row models.SiesaItem
	err := r.db.WithContext(ctx).First(&row, "f120_id = ?", item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List reads every ERP item, active or not, in fixed-size ranges. The
// unified catalog shows the full item set; activity is a column, not a
// filter.
func (r *Repository) List(ctx context.Context) ([]models.SiesaItem, error) {
	var all []models.SiesaItem
	for offset := 0; ; offset += fetchPageSize {
		var page []models.SiesaItem
		err := r.db.WithContext(ctx).
			Order("f120_id ASC").
			Offset(offset).
			Limit(fetchPageSize).
			Find(&page).Error
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < fetchPageSize {
			return all, nil
		}
	}
}

// SearchLike finds ERP items whose key contains the fragment. Used by the
// SKU diagnosis endpoint to surface near-miss keys.
func (r *Repository) SearchLike(ctx context.Context, fragment string) ([]models.SiesaItem, error) {
	var rows []models.SiesaItem
	err := r.db.WithContext(ctx).
		Where("f120_id LIKE ?", "%"+fragment+"%").
		Order("f120_id ASC").
		Limit(50).
		Find(&rows).Error
	return rows, err
}
