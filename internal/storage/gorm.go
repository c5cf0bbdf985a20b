package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/shopcart-backend/pkg/db"
	"github.com/angelmondragon/shopcart-backend/pkg/db/models"
)

// GormStore persists blobs in the kv_blobs table.
type GormStore struct {
	client *db.Client
}

func NewGormStore(client *db.Client) (*GormStore, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &GormStore{client: client}, nil
}

func (s *GormStore) Load(ctx context.Context, name string) ([]byte, error) {
	var row models.KVBlob
	err := s.client.DB().WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load blob %q: %w", name, err)
	}
	return []byte(row.Value), nil
}

func (s *GormStore) Save(ctx context.Context, name string, value []byte) error {
	if err := upsert(s.client.DB().WithContext(ctx), name, value); err != nil {
		return fmt.Errorf("save blob %q: %w", name, err)
	}
	return nil
}

func (s *GormStore) SaveMany(ctx context.Context, values map[string][]byte) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		for name, value := range values {
			if err := upsert(tx, name, value); err != nil {
				return fmt.Errorf("save blob %q: %w", name, err)
			}
		}
		return nil
	})
}

func (s *GormStore) Delete(ctx context.Context, name string) error {
	err := s.client.DB().WithContext(ctx).Where("name = ?", name).Delete(&models.KVBlob{}).Error
	if err != nil {
		return fmt.Errorf("delete blob %q: %w", name, err)
	}
	return nil
}

func upsert(tx *gorm.DB, name string, value []byte) error {
	row := models.KVBlob{Name: name, Value: string(value), UpdatedAt: time.Now().UTC()}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}
