package marketing

import "time"

// Record is the view of a campaign container the reconciler needs.
type Record interface {
	GetID() int64
	GetStatus() Status
	IsEnabled() bool
}

// TimedRecord is a Record that owns its own time window
type TimedRecord interface {
	Record
	GetStartTime() time.Time
	GetEndTime() time.Time
}

// Kind names of the campaign containers
const (
	KindSeckillSession  = "seckill_session"
	KindSeckillActivity = "seckill_activity"
	KindGroupBuy        = "group_buy"
)
