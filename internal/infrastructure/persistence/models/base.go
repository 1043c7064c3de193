package models

import (
	"time"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// ToDomainAggregateRoot converts AggregateModel to a domain BaseAggregateRoot
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// LifecycleColumns holds the status columns shared by every campaign table.
// Status and IsEnabled carry no gorm default so false and pending are written as given.
type LifecycleColumns struct {
	Status       string     `gorm:"type:varchar(20);not null;index"`
	IsEnabled    bool       `gorm:"not null"`
	StartedAt    *time.Time
	EndedAt      *time.Time
	CancelledAt  *time.Time
	CancelReason string     `gorm:"type:varchar(500)"`
}

// ToDomain converts the columns to a domain Lifecycle
func (c LifecycleColumns) ToDomain() marketing.Lifecycle {
	return marketing.Lifecycle{
		Status:       marketing.Status(c.Status),
		Enabled:      c.IsEnabled,
		StartedAt:    c.StartedAt,
		EndedAt:      c.EndedAt,
		CancelledAt:  c.CancelledAt,
		CancelReason: c.CancelReason,
	}
}

// LifecycleColumnsFromDomain converts a domain Lifecycle
func LifecycleColumnsFromDomain(l marketing.Lifecycle) LifecycleColumns {
	return LifecycleColumns{
		Status:       string(l.Status),
		IsEnabled:    l.Enabled,
		StartedAt:    l.StartedAt,
		EndedAt:      l.EndedAt,
		CancelledAt:  l.CancelledAt,
		CancelReason: l.CancelReason,
	}
}

// UpdateColumns returns the lifecycle columns as an update map
func (c LifecycleColumns) UpdateColumns() map[string]interface{} {
	return map[string]interface{}{
		"status":        c.Status,
		"is_enabled":    c.IsEnabled,
		"started_at":    c.StartedAt,
		"ended_at":      c.EndedAt,
		"cancelled_at":  c.CancelledAt,
		"cancel_reason": c.CancelReason,
	}
}
