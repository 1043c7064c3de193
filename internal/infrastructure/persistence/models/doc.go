// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
//   - base.go: shared columns (id, timestamps, version, lifecycle)
//   - marketing.go: seckill activities, seckill sessions, group-buy activities
package models
