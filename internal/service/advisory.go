package service

import (
	"context"

	"github.com/pulsefit/studio-scheduler-api/internal/models"
)

// AdvisoryProvider produces non-authoritative commentary about a committed
// schedule. Engines never consult it; its output only decorates the summary
// read-model. Implementations must be safe for concurrent use.
type AdvisoryProvider interface {
	Advise(ctx context.Context, instances []models.ScheduledClassInstance) (string, error)
}

// NopAdvisoryProvider is the default wiring when no advisory backend is
// configured. It always returns an empty advisory.
type NopAdvisoryProvider struct{}

// Advise implements AdvisoryProvider.
func (NopAdvisoryProvider) Advise(context.Context, []models.ScheduledClassInstance) (string, error) {
	return "", nil
}
