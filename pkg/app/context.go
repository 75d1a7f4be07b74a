package app

import (
	"context"
	"time"
)

const BACKGROUND_TIMEOUT_DURATION = time.Minute

// BackgroundTimeoutContext bounds startup work that runs before the servers
// accept traffic, such as the master's dataset catalog scan and static worker
// registration.
func BackgroundTimeoutContext() (context.Context, context.CancelFunc) {
	return BackgroundTimeoutContextDuration(BACKGROUND_TIMEOUT_DURATION)
}

func BackgroundTimeoutContextDuration(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}
