package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
	"github.com/mall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormGroupBuyActivityRepository implements GroupBuyActivityRepository using GORM
type GormGroupBuyActivityRepository struct {
	db *gorm.DB
}

// NewGormGroupBuyActivityRepository creates a new GormGroupBuyActivityRepository
func NewGormGroupBuyActivityRepository(db *gorm.DB) *GormGroupBuyActivityRepository {
	return &GormGroupBuyActivityRepository{db: db}
}

// FindByID finds a group-buy activity by its ID
func (r *GormGroupBuyActivityRepository) FindByID(ctx context.Context, id int64) (*marketing.GroupBuyActivity, error) {
	var model models.GroupBuyActivityModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingStartingBefore finds enabled pending activities starting at or before deadline
func (r *GormGroupBuyActivityRepository) FindPendingStartingBefore(ctx context.Context, deadline time.Time) ([]marketing.GroupBuyActivity, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ? AND is_enabled = ? AND start_time <= ?", string(marketing.StatusPending), true, deadline).
		Order("start_time ASC, id ASC"))
}

// FindActiveEndedBefore finds active activities whose end time is before now
func (r *GormGroupBuyActivityRepository) FindActiveEndedBefore(ctx context.Context, now time.Time) ([]marketing.GroupBuyActivity, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ? AND end_time < ?", string(marketing.StatusActive), now).
		Order("end_time ASC, id ASC"))
}

func (r *GormGroupBuyActivityRepository) find(query *gorm.DB) ([]marketing.GroupBuyActivity, error) {
	var activityModels []models.GroupBuyActivityModel
	if err := query.Find(&activityModels).Error; err != nil {
		return nil, err
	}
	activities := make([]marketing.GroupBuyActivity, len(activityModels))
	for i := range activityModels {
		activities[i] = *activityModels[i].ToDomain()
	}
	return activities, nil
}

// Save creates or fully overwrites a group-buy activity
func (r *GormGroupBuyActivityRepository) Save(ctx context.Context, activity *marketing.GroupBuyActivity) error {
	model := models.GroupBuyActivityModelFromDomain(activity)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	activity.ID = model.ID
	activity.CreatedAt = model.CreatedAt
	activity.UpdatedAt = model.UpdatedAt
	return nil
}

// SaveWithLock persists a group-buy activity guarded by its version
func (r *GormGroupBuyActivityRepository) SaveWithLock(ctx context.Context, activity *marketing.GroupBuyActivity) error {
	model := models.GroupBuyActivityModelFromDomain(activity)
	columns := model.LifecycleColumns.UpdateColumns()
	columns["name"] = model.Name
	columns["product_id"] = model.ProductID
	columns["group_size"] = model.GroupSize
	columns["group_price"] = model.GroupPrice
	columns["start_time"] = model.StartTime
	columns["end_time"] = model.EndTime

	version, err := updateWithLock(ctx, r.db, &models.GroupBuyActivityModel{}, activity.ID, activity.Version, activity.UpdatedAt, columns)
	if err != nil {
		return err
	}
	activity.Version = version
	return nil
}
