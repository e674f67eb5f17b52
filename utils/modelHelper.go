package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/payables_backend/config"
)

/* DB fetching */

// fetch model from db
// (may return RecordNotFound; soft-deleted rows are excluded by gorm)
func FetchModel[T any](ctx context.Context, id int, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}
