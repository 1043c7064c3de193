package scheduler

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/mall/backend/internal/infrastructure/scheduler"

// tracer resolves the global provider on every call so a provider installed
// after construction is still honoured.
func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
