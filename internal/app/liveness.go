package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Monitor reaps unresponsive connections. One global sweep per interval:
// a binding whose flag was not refreshed by a pong since the previous tick,
// or whose transport is no longer open, is forced through the normal leave
// path. A truly dead peer survives at most one interval.
type Monitor struct {
	Interval time.Duration
	Registry *Registry
	Coord    *Coordinator
}

func NewMonitor(interval time.Duration, reg *Registry, coord *Coordinator) *Monitor {
	return &Monitor{Interval: interval, Registry: reg, Coord: coord}
}

func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()
	log.Info().Str("module", "app.liveness").Dur("interval", m.Interval).Msg("liveness monitor started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.liveness").Msg("liveness monitor stopped")
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Monitor) sweep() {
	for _, b := range m.Registry.Snapshot() {
		if !b.Alive || !b.Conn.IsOpen() {
			log.Warn().Str("module", "app.liveness").Str("participant", string(b.PID)).Msg("unresponsive connection, forcing departure")
			m.Coord.Leave(b.PID)
			b.Conn.Close()
			continue
		}
		m.Registry.MarkAlive(b.PID, false)
		if err := b.Conn.Ping(); err != nil {
			log.Warn().Err(err).Str("module", "app.liveness").Str("participant", string(b.PID)).Msg("ping failed")
		}
	}
}
