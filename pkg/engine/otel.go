package engine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/opd-ai/vectorspace/pkg/engine"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// engineMetrics holds the instruments of a Game. They come from the global
// OTel provider and are no-ops unless one is configured.
type engineMetrics struct {
	ticks        metric.Int64Counter
	collisions   metric.Int64Counter
	resets       metric.Int64Counter
	tickDuration metric.Float64Histogram
}

func newEngineMetrics() (*engineMetrics, error) {
	m := meter()
	em := &engineMetrics{}

	var err error
	em.ticks, err = m.Int64Counter(
		"engine.ticks",
		metric.WithDescription("Total simulation ticks"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	em.collisions, err = m.Int64Counter(
		"engine.collisions",
		metric.WithDescription("Collisions registered by movers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating collisions counter: %w", err)
	}

	em.resets, err = m.Int64Counter(
		"engine.resets",
		metric.WithDescription("World resets"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resets counter: %w", err)
	}

	em.tickDuration, err = m.Float64Histogram(
		"engine.tick.duration",
		metric.WithDescription("Wall time spent in one tick"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick duration histogram: %w", err)
	}

	return em, nil
}

func (em *engineMetrics) tick(elapsed time.Duration) {
	ctx := context.Background()
	em.ticks.Add(ctx, 1)
	em.tickDuration.Record(ctx, elapsed.Seconds())
}

func (em *engineMetrics) collision(mover string) {
	em.collisions.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("mover", mover)))
}

func (em *engineMetrics) reset() {
	em.resets.Add(context.Background(), 1)
}
