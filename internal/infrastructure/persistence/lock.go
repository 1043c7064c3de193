package persistence

import (
	"context"
	"time"

	"github.com/mall/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// updateWithLock writes columns to the row id of model's table when its version still
// matches expected. On success it returns the new version.
func updateWithLock(ctx context.Context, db *gorm.DB, model interface{}, id int64, expected int, updatedAt time.Time, columns map[string]interface{}) (int, error) {
	next := expected + 1
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		result := tx.Model(model).
			Where("id = ?", id).
			Select("version").
			Scan(&currentVersion)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if currentVersion != expected {
			return shared.ErrConcurrencyConflict
		}

		if updatedAt.IsZero() {
			updatedAt = time.Now()
		}
		columns["version"] = next
		columns["updated_at"] = updatedAt

		result = tx.Model(model).
			Where("id = ? AND version = ?", id, currentVersion).
			Updates(columns)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
	if err != nil {
		return expected, err
	}
	return next, nil
}
