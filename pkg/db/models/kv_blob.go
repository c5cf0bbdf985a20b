package models

import "time"

// KVBlob stores one named JSON collection (products, coupons, a cart).
type KVBlob struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table created by the goose migration.
func (KVBlob) TableName() string {
	return "kv_blobs"
}
