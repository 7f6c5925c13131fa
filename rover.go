package rover

import "time"

// Clock abstracts time for the blocking motion and ranging routines so they can
// be tested without real elapsed time. The firmware and host both use the system
// clock; tests inject fakes.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }
