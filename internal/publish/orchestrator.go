package publish

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/solsticedigital/backoffice/pkg/enums"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/logger"
	"github.com/solsticedigital/backoffice/pkg/metrics"
)

// Orchestrator runs a fan-out across the registered adapters. Each platform is
// attempted independently; errors are collected rather than short-circuiting.
type Orchestrator struct {
	registry *Registry
	logger   *logger.Logger
	metrics  *metrics.PublishMetrics
}

// NewOrchestrator builds the orchestrator. Metrics may be nil in tests.
func NewOrchestrator(registry *Registry, logg *logger.Logger, pm *metrics.PublishMetrics) (*Orchestrator, error) {
	if registry == nil {
		return nil, fmt.Errorf("adapter registry required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Orchestrator{
		registry: registry,
		logger:   logg,
		metrics:  pm,
	}, nil
}

// Publish attempts every requested platform and reports the combined outcome.
// Unknown platforms count as failures so the caller's bookkeeping still sees
// them attempted.
func (o *Orchestrator) Publish(ctx context.Context, content Content, platforms []enums.Platform) Result {
	result := Result{}

	for _, platform := range platforms {
		result.Attempted = append(result.Attempted, platform)
		platformCtx := o.logger.WithPlatform(ctx, platform.String())
		o.metrics.IncAttempt(platform.String())

		adapter, ok := o.registry.Adapter(platform)
		if !ok {
			err := pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("no adapter registered for platform %q", platform))
			o.logger.Error(platformCtx, "publish skipped: unknown platform", err)
			o.metrics.IncFailure(platform.String())
			result.Failed = append(result.Failed, platform.String())
			result.Err = multierr.Append(result.Err, err)
			continue
		}

		start := time.Now()
		err := adapter.Publish(platformCtx, content)
		o.metrics.ObserveDuration(platform.String(), time.Since(start))

		if err != nil {
			o.logger.Error(platformCtx, "platform publish failed", err)
			o.metrics.IncFailure(platform.String())
			result.Failed = append(result.Failed, platform.String())
			result.Err = multierr.Append(result.Err,
				fmt.Errorf("%s: %w", platform, err))
			continue
		}

		o.logger.Info(platformCtx, "platform publish succeeded")
		result.Published = append(result.Published, platform.Label())
	}

	return result
}
