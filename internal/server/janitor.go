package server

import (
	"context"
	"time"

	"github.com/gogpu/ggcircle"
)

// runJanitor removes stale exports every interval until ctx is done.
func (s *Server) runJanitor(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Export.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep removes exports older than the configured maximum age and forgets
// their download ids.
func (s *Server) sweep() {
	removed, err := s.exporter.Sweep(s.cfg.Export.MaxAge)
	if err != nil {
		ggcircle.Logger().Warn("server: sweep failed", "err", err)
	}
	forgotten := s.exports.prune()
	if removed > 0 || forgotten > 0 {
		ggcircle.Logger().Debug("server: sweep done",
			"removed", removed, "forgotten", forgotten, "tracked", s.exports.len())
	}
}
