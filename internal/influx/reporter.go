package influx

import (
	"context"
	"sort"
	"time"

	"github.com/eastwood-fallfest/festmap/internal/registry"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
)

// StatsSource returns current statistics keyed by registry name.
type StatsSource func() map[string]registry.Stats

// PointWriter is satisfied by Manager.
type PointWriter interface {
	WritePoint(point *influxdb2_write.Point) error
}

// Reporter periodically writes registry statistics.
type Reporter struct {
	writer   PointWriter
	source   StatsSource
	festival string
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewReporter creates a reporter. interval <= 0 defaults to 30s.
func NewReporter(w PointWriter, source StatsSource, festival string, interval time.Duration, log zerolog.Logger) *Reporter {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Reporter{
		writer:   w,
		source:   source,
		festival: festival,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Report writes one point per registry and returns how many were written.
func (r *Reporter) Report() int {
	stats := r.source()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	at := r.now()
	written := 0
	for _, name := range names {
		if err := r.writer.WritePoint(StatsPoint(r.festival, name, stats[name], at)); err != nil {
			r.log.Error().Err(err).Str("registry", name).Msg("writing stats point")
			continue
		}
		written++
	}
	return written
}

// Run reports every interval until ctx is done.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := r.Report()
			r.log.Debug().Int("points", n).Msg("stats reported")
		}
	}
}
