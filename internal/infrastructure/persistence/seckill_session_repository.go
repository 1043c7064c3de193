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

// GormSeckillSessionRepository implements SeckillSessionRepository using GORM
type GormSeckillSessionRepository struct {
	db *gorm.DB
}

// NewGormSeckillSessionRepository creates a new GormSeckillSessionRepository
func NewGormSeckillSessionRepository(db *gorm.DB) *GormSeckillSessionRepository {
	return &GormSeckillSessionRepository{db: db}
}

// FindByID finds a session by its ID
func (r *GormSeckillSessionRepository) FindByID(ctx context.Context, id int64) (*marketing.SeckillSession, error) {
	var model models.SeckillSessionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingStartingBefore finds enabled pending sessions starting at or before deadline
func (r *GormSeckillSessionRepository) FindPendingStartingBefore(ctx context.Context, deadline time.Time) ([]marketing.SeckillSession, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ? AND is_enabled = ? AND start_time <= ?", string(marketing.StatusPending), true, deadline).
		Order("start_time ASC, id ASC"))
}

// FindActiveEndedBefore finds active sessions whose end time is before now
func (r *GormSeckillSessionRepository) FindActiveEndedBefore(ctx context.Context, now time.Time) ([]marketing.SeckillSession, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ? AND end_time < ?", string(marketing.StatusActive), now).
		Order("end_time ASC, id ASC"))
}

// FindByActivityID finds every session of an activity
func (r *GormSeckillSessionRepository) FindByActivityID(ctx context.Context, activityID int64) ([]marketing.SeckillSession, error) {
	return r.find(r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("start_time ASC, id ASC"))
}

func (r *GormSeckillSessionRepository) find(query *gorm.DB) ([]marketing.SeckillSession, error) {
	var sessionModels []models.SeckillSessionModel
	if err := query.Find(&sessionModels).Error; err != nil {
		return nil, err
	}
	sessions := make([]marketing.SeckillSession, len(sessionModels))
	for i := range sessionModels {
		sessions[i] = *sessionModels[i].ToDomain()
	}
	return sessions, nil
}

// Save creates or fully overwrites a session
func (r *GormSeckillSessionRepository) Save(ctx context.Context, session *marketing.SeckillSession) error {
	model := models.SeckillSessionModelFromDomain(session)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	session.ID = model.ID
	session.CreatedAt = model.CreatedAt
	session.UpdatedAt = model.UpdatedAt
	return nil
}

// SaveWithLock persists a session guarded by its version
func (r *GormSeckillSessionRepository) SaveWithLock(ctx context.Context, session *marketing.SeckillSession) error {
	model := models.SeckillSessionModelFromDomain(session)
	columns := model.LifecycleColumns.UpdateColumns()
	columns["activity_id"] = model.ActivityID
	columns["start_time"] = model.StartTime
	columns["end_time"] = model.EndTime

	version, err := updateWithLock(ctx, r.db, &models.SeckillSessionModel{}, session.ID, session.Version, session.UpdatedAt, columns)
	if err != nil {
		return err
	}
	session.Version = version
	return nil
}
