package models

// SiesaItem is a row of the read-only ERP item cache. Column names follow the
// SIESA export (f120_* prefixes), which keeps the table queryable with the
// same field names operators see in the ERP.
type SiesaItem struct {
	Item        string `gorm:"column:f120_id;primaryKey"`
	Description string `gorm:"column:f120_descripcion"`
	Group       string `gorm:"column:grupo"`
	Subgroup    string `gorm:"column:subgrupo"`
	Brand       string `gorm:"column:marca"`
	Active      bool   `gorm:"column:activo;not null;default:false"`
}

func (SiesaItem) TableName() string { return "items_siesa" }
