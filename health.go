package simpleado

import (
	"context"
	"database/sql"
	"time"
)

// HealthStatus represents the health of the driver handle for one connection string
type HealthStatus struct {
	Healthy   bool          `json:"healthy"`
	Latency   time.Duration `json:"latency"`
	Error     string        `json:"error,omitempty"`
	PoolStats PoolStats     `json:"pool_stats"`
}

// PoolStats contains driver pool statistics
type PoolStats struct {
	MaxOpenConnections int           `json:"max_open_connections"`
	OpenConnections    int           `json:"open_connections"`
	InUse              int           `json:"in_use"`
	Idle               int           `json:"idle"`
	WaitCount          int64         `json:"wait_count"`
	WaitDuration       time.Duration `json:"wait_duration"`
	MaxIdleClosed      int64         `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64         `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64         `json:"max_lifetime_closed"`
}

// Health pings the database behind connString and reports the pool state.
// The driver handle is opened if this is its first use.
func (e *Engine) Health(ctx context.Context, connString string) HealthStatus {
	start := time.Now()

	db, err := e.db(connString)
	if err == nil {
		err = db.PingContext(ctx)
	}
	latency := time.Since(start)

	status := HealthStatus{
		Healthy: err == nil,
		Latency: latency,
	}
	if db != nil {
		status.PoolStats = PoolStatsFromSQL(db.DB.Stats())
	}
	if err != nil {
		status.Error = err.Error()
	}

	return status
}

// IsHealthy returns true if the database behind connString is reachable
func (e *Engine) IsHealthy(ctx context.Context, connString string) bool {
	return e.Health(ctx, connString).Healthy
}

// Stats returns the pool statistics for connString, if a handle has been
// opened for it.
func (e *Engine) Stats(connString string) (PoolStats, bool) {
	e.mu.Lock()
	db, ok := e.dbs[connString]
	e.mu.Unlock()
	if !ok {
		return PoolStats{}, false
	}
	return PoolStatsFromSQL(db.DB.Stats()), true
}

// PoolStatsFromSQL converts sql.DBStats to PoolStats
func PoolStatsFromSQL(stats sql.DBStats) PoolStats {
	return PoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}
