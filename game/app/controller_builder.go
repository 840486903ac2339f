package app

import "time"

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(*controller)

// WithClock replaces time.Now for the game timer.
//
// Parameters:
//   - now: returns the current time
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithClock(now func() time.Time) ControllerBuilderOption {
	return func(c *controller) {
		if now != nil {
			c.now = now
		}
	}
}
