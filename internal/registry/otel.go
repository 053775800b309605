package registry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/eastwood-fallfest/festmap/internal/registry"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type instruments struct {
	registry attribute.KeyValue
	ops      metric.Int64Counter
	drags    metric.Int64Counter
}

// newInstruments uses the global meter, which is a no-op unless configured.
func newInstruments(registry string) (*instruments, error) {
	m := meter()
	i := &instruments{registry: attribute.String("registry", registry)}

	var err error
	i.ops, err = m.Int64Counter(
		"registry.operations",
		metric.WithDescription("Mutating registry operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operations counter: %w", err)
	}

	i.drags, err = m.Int64Counter(
		"registry.drags",
		metric.WithDescription("Completed marker drags"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating drags counter: %w", err)
	}

	return i, nil
}

func noopInstruments(registry string) *instruments {
	m := noop.NewMeterProvider().Meter(instrumentationName)
	ops, _ := m.Int64Counter("registry.operations")
	drags, _ := m.Int64Counter("registry.drags")
	return &instruments{registry: attribute.String("registry", registry), ops: ops, drags: drags}
}

func (i *instruments) op(name string) {
	i.ops.Add(context.Background(), 1, metric.WithAttributes(i.registry, attribute.String("op", name)))
}

func (i *instruments) drag() {
	i.drags.Add(context.Background(), 1, metric.WithAttributes(i.registry))
}
