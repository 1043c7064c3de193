package models

import (
	"time"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/shopspring/decimal"
)

// SeckillActivityModel is the persistence model for the SeckillActivity aggregate root.
type SeckillActivityModel struct {
	AggregateModel
	LifecycleColumns
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SeckillActivityModel) TableName() string {
	return "seckill_activities"
}

// ToDomain converts the persistence model to a domain SeckillActivity.
func (m *SeckillActivityModel) ToDomain() *marketing.SeckillActivity {
	return &marketing.SeckillActivity{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Lifecycle:         m.LifecycleColumns.ToDomain(),
		Name:              m.Name,
		Description:       m.Description,
	}
}

// SeckillActivityModelFromDomain creates a new persistence model from a domain SeckillActivity.
func SeckillActivityModelFromDomain(a *marketing.SeckillActivity) *SeckillActivityModel {
	m := &SeckillActivityModel{
		LifecycleColumns: LifecycleColumnsFromDomain(a.Lifecycle),
		Name:             a.Name,
		Description:      a.Description,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}

// SeckillSessionModel is the persistence model for the SeckillSession aggregate root.
type SeckillSessionModel struct {
	AggregateModel
	LifecycleColumns
	ActivityID int64     `gorm:"not null;index"`
	StartTime  time.Time `gorm:"not null;index"`
	EndTime    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SeckillSessionModel) TableName() string {
	return "seckill_sessions"
}

// ToDomain converts the persistence model to a domain SeckillSession.
func (m *SeckillSessionModel) ToDomain() *marketing.SeckillSession {
	return &marketing.SeckillSession{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Lifecycle:         m.LifecycleColumns.ToDomain(),
		ActivityID:        m.ActivityID,
		StartTime:         m.StartTime,
		EndTime:           m.EndTime,
	}
}

// SeckillSessionModelFromDomain creates a new persistence model from a domain SeckillSession.
func SeckillSessionModelFromDomain(s *marketing.SeckillSession) *SeckillSessionModel {
	m := &SeckillSessionModel{
		LifecycleColumns: LifecycleColumnsFromDomain(s.Lifecycle),
		ActivityID:       s.ActivityID,
		StartTime:        s.StartTime,
		EndTime:          s.EndTime,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// GroupBuyActivityModel is the persistence model for the GroupBuyActivity aggregate root.
type GroupBuyActivityModel struct {
	AggregateModel
	LifecycleColumns
	Name       string          `gorm:"type:varchar(200);not null"`
	ProductID  int64           `gorm:"not null;index"`
	GroupSize  int             `gorm:"not null"`
	GroupPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StartTime  time.Time       `gorm:"not null;index"`
	EndTime    time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (GroupBuyActivityModel) TableName() string {
	return "group_buy_activities"
}

// ToDomain converts the persistence model to a domain GroupBuyActivity.
func (m *GroupBuyActivityModel) ToDomain() *marketing.GroupBuyActivity {
	return &marketing.GroupBuyActivity{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Lifecycle:         m.LifecycleColumns.ToDomain(),
		Name:              m.Name,
		ProductID:         m.ProductID,
		GroupSize:         m.GroupSize,
		GroupPrice:        m.GroupPrice,
		StartTime:         m.StartTime,
		EndTime:           m.EndTime,
	}
}

// GroupBuyActivityModelFromDomain creates a new persistence model from a domain GroupBuyActivity.
func GroupBuyActivityModelFromDomain(g *marketing.GroupBuyActivity) *GroupBuyActivityModel {
	m := &GroupBuyActivityModel{
		LifecycleColumns: LifecycleColumnsFromDomain(g.Lifecycle),
		Name:             g.Name,
		ProductID:        g.ProductID,
		GroupSize:        g.GroupSize,
		GroupPrice:       g.GroupPrice,
		StartTime:        g.StartTime,
		EndTime:          g.EndTime,
	}
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	return m
}

// AllModels returns the models managed by this service, for AutoMigrate in tests
func AllModels() []interface{} {
	return []interface{}{
		&SeckillActivityModel{},
		&SeckillSessionModel{},
		&GroupBuyActivityModel{},
	}
}
