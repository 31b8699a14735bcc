package cmd

import (
	"fmt"

	"github.com/shopmate/shopmate/pkg/roster"
)

// NewLoadCounter creates the live staff load counter. With a Redis URL the
// counts are shared across processes; without one they are process-local,
// which only suits single-binary deployments.
func NewLoadCounter(redisURL string) roster.LoadCounter {
	if redisURL == "" {
		return roster.NewMemoryLoadCounter()
	}

	counter, err := roster.NewRedisLoadCounter(redisURL)
	if err != nil {
		panic(fmt.Errorf("failed to create Redis load counter: %w", err))
	}

	return counter
}
