package notification

import "context"

// NotifiedLedger records which (tenancy, billing period, kind) notifications
// have already been dispatched, so repeated scans inside the reminder window
// do not re-send. Entries expire at period rollover.
type NotifiedLedger interface {
	// MarkIfFirst atomically records the key and reports whether this caller
	// was the first to do so within the key's billing period.
	MarkIfFirst(ctx context.Context, key Key) (bool, error)
	// Release forgets the key so a later scan may retry, used when a send
	// attempt fails after the key was marked.
	Release(ctx context.Context, key Key) error
}
