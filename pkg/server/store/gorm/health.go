package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/store"
)

var requiredTables = []string{"apps", "schemes", "channels"}

type HealthStore struct {
	db *gorm.DB
}

func NewHealthStore(db *gorm.DB) *HealthStore {
	return &HealthStore{db: db}
}

func (s *HealthStore) CheckConnectivity(ctx context.Context) error {
	var present int64
	err := s.db.WithContext(ctx).
		Raw("SELECT count(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name IN ?", requiredTables).
		Scan(&present).Error
	if err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if present < int64(len(requiredTables)) {
		return store.ErrSchemaMissing
	}
	return nil
}
