package avatar

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
)

// statsInterval is how often texture cache statistics are logged at -v=2.
const statsInterval = 5 * time.Second

// statsLogger periodically reports texture cache activity. Only active when
// glog verbosity is 2 or higher.
type statsLogger struct {
	clock  clock.Clock
	last   time.Time
	logged bool
	prev   CacheStats
}

func newStatsLogger(clk clock.Clock) *statsLogger {
	return &statsLogger{clock: clk}
}

// due reports whether a report is owed now and, if so, restarts the interval.
func (l *statsLogger) due() bool {
	now := l.clock.Now()
	if l.logged && now.Sub(l.last) < statsInterval {
		return false
	}
	l.last = now
	l.logged = true
	return true
}

func (l *statsLogger) maybeLog(stats CacheStats) {
	if !bool(glog.V(2)) || !l.due() {
		return
	}
	glog.Infof("avatar: textures: %d cached | hits: %d (+%d) | misses: %d (+%d) | hit rate: %.1f%%",
		stats.Entries, stats.Hits, stats.Hits-l.prev.Hits,
		stats.Misses, stats.Misses-l.prev.Misses, hitRate(stats))
	l.prev = stats
}

// hitRate returns the percentage of lookups served from the cache.
func hitRate(s CacheStats) float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) * 100 / float64(total)
}
