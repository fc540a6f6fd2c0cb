// Package dedup provides the NotifiedLedger backends: an in-process map for
// single-instance deployments and a redis store for anything shared.
package dedup

import (
	"context"
	"sync"

	"github.com/xvolv/tenant/internal/domain/calendar"
	"github.com/xvolv/tenant/internal/domain/notification"
)

// MemoryLedger keeps notified keys in process memory. Entries from past
// billing periods are purged the first time a newer period is marked, which
// bounds the map to roughly one period's worth of keys.
type MemoryLedger struct {
	mu     sync.Mutex
	period int
	keys   map[string]int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{keys: make(map[string]int)}
}

func (l *MemoryLedger) MarkIfFirst(_ context.Context, key notification.Key) (bool, error) {
	period := key.Year*calendar.MonthsPerYear + key.Month

	l.mu.Lock()
	defer l.mu.Unlock()

	if period > l.period {
		// Period rollover: everything older is no longer deliverable.
		for k, p := range l.keys {
			if p < period {
				delete(l.keys, k)
			}
		}
		l.period = period
	}

	if _, seen := l.keys[key.String()]; seen {
		return false, nil
	}
	l.keys[key.String()] = period
	return true, nil
}

func (l *MemoryLedger) Release(_ context.Context, key notification.Key) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.keys, key.String())
	return nil
}
