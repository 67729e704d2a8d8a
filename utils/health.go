package utils

import (
	"context"
	"sync"
	"time"
)

// Pinger is anything whose reachability the health monitor tracks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Status    string    `json:"status"`
	Redis     bool      `json:"redis"`
	Mongo     *bool     `json:"mongo,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

var (
	currentHealth = HealthStatus{Status: "starting"}
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings every dependency once and stores the result. A nil mongo
// pinger means Mongo is not in use and is left out of the report.
func CheckHealth(ctx context.Context, redisPinger, mongoPinger Pinger) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := HealthStatus{Status: "ok", CheckedAt: time.Now().UTC()}
	status.Redis = redisPinger != nil && redisPinger.Ping(ctx) == nil
	if !status.Redis {
		status.Status = "degraded"
	}
	if mongoPinger != nil {
		healthy := mongoPinger.Ping(ctx) == nil
		status.Mongo = &healthy
		if !healthy {
			status.Status = "degraded"
		}
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor checks immediately and then on every tick until ctx is done.
func StartHealthMonitor(ctx context.Context, interval time.Duration, redisPinger, mongoPinger Pinger) {
	go func() {
		CheckHealth(ctx, redisPinger, mongoPinger)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, redisPinger, mongoPinger)
			}
		}
	}()
}
