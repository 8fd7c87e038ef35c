package ui

import "time"

// Terminal width threshold for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which authors are hidden
	// from list rows.
	LayoutCompactWidth = 80
)

// Activity view limits.
const (
	// ActivityLineLimit is how many log lines the activity view reads.
	ActivityLineLimit = 500
)

// Timing constants.
const (
	// ToastDuration is how long a notification stays visible.
	ToastDuration = 3 * time.Second

	// DefaultUIInterval is how often the UI re-reads the cached list when
	// background refresh is on.
	DefaultUIInterval = time.Second
)
