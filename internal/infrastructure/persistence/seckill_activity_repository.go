package persistence

import (
	"context"
	"errors"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
	"github.com/mall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSeckillActivityRepository implements SeckillActivityRepository using GORM
type GormSeckillActivityRepository struct {
	db *gorm.DB
}

// NewGormSeckillActivityRepository creates a new GormSeckillActivityRepository
func NewGormSeckillActivityRepository(db *gorm.DB) *GormSeckillActivityRepository {
	return &GormSeckillActivityRepository{db: db}
}

// FindByID finds an activity by its ID
func (r *GormSeckillActivityRepository) FindByID(ctx context.Context, id int64) (*marketing.SeckillActivity, error) {
	var model models.SeckillActivityModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingEnabled finds pending activities that are enabled
func (r *GormSeckillActivityRepository) FindPendingEnabled(ctx context.Context) ([]marketing.SeckillActivity, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ? AND is_enabled = ?", string(marketing.StatusPending), true).
		Order("id ASC"))
}

// FindActive finds active activities
func (r *GormSeckillActivityRepository) FindActive(ctx context.Context) ([]marketing.SeckillActivity, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ?", string(marketing.StatusActive)).
		Order("id ASC"))
}

func (r *GormSeckillActivityRepository) find(query *gorm.DB) ([]marketing.SeckillActivity, error) {
	var activityModels []models.SeckillActivityModel
	if err := query.Find(&activityModels).Error; err != nil {
		return nil, err
	}
	activities := make([]marketing.SeckillActivity, len(activityModels))
	for i := range activityModels {
		activities[i] = *activityModels[i].ToDomain()
	}
	return activities, nil
}

// Save creates or fully overwrites an activity
func (r *GormSeckillActivityRepository) Save(ctx context.Context, activity *marketing.SeckillActivity) error {
	model := models.SeckillActivityModelFromDomain(activity)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	activity.ID = model.ID
	activity.CreatedAt = model.CreatedAt
	activity.UpdatedAt = model.UpdatedAt
	return nil
}

// SaveWithLock persists an activity guarded by its version
func (r *GormSeckillActivityRepository) SaveWithLock(ctx context.Context, activity *marketing.SeckillActivity) error {
	model := models.SeckillActivityModelFromDomain(activity)
	columns := model.LifecycleColumns.UpdateColumns()
	columns["name"] = model.Name
	columns["description"] = model.Description

	version, err := updateWithLock(ctx, r.db, &models.SeckillActivityModel{}, activity.ID, activity.Version, activity.UpdatedAt, columns)
	if err != nil {
		return err
	}
	activity.Version = version
	return nil
}
