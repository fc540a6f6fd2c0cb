package notification

// DispatchResult aggregates one dispatcher pass. It is the sole observable
// outcome of a run; nothing about it is persisted.
type DispatchResult struct {
	Sent    int              `json:"sent"`
	Failed  int              `json:"failed"`
	Skipped int              `json:"skipped"`
	Details []DispatchDetail `json:"details"`
}

// DispatchDetail describes one per-tenancy outcome.
type DispatchDetail struct {
	Room        string `json:"room"`
	Tenant      string `json:"tenant"`
	Kind        Kind   `json:"kind"`
	DayDistance int    `json:"dayDistance,omitempty"`
	Error       string `json:"error,omitempty"`
}
