// Package sonar measures distance to an obstacle with an HC-SR04 style
// time-of-flight ultrasonic sensor: drive a trigger pulse, time the width of
// the echo pulse, convert elapsed time to distance via the speed of sound.
package sonar

import (
	"errors"
	"time"

	rover "github.com/Luka-Zagar/5hek-Robopopotniki"
)

const (
	// speedOfSoundCmPerUs is the speed of sound at room temperature. The echo
	// time covers the round trip, so distance is half of time times speed.
	speedOfSoundCmPerUs = 0.0343

	// settleDelay holds the trigger low before the pulse to guarantee a clean
	// rising edge; the datasheet asks for at least 2us.
	settleDelay = 2 * time.Microsecond

	// triggerPulse is the sensor's defined trigger protocol: a 10us high pulse.
	triggerPulse = 10 * time.Microsecond

	// DefaultTimeout bounds the wait for the echo edges. 30ms of round trip is
	// roughly 5m of range, beyond which the sensor cannot be trusted anyway.
	DefaultTimeout = 30 * time.Millisecond
)

// OutputPin drives the sensor's trigger line.
type OutputPin interface {
	High()
	Low()
}

// InputPin reads the sensor's echo line.
type InputPin interface {
	Get() bool
}

// Reading is a single distance sample. Valid is false when no echo completed
// within the timeout window, which is the expected "no target in range"
// outcome rather than an error; DistanceCm is meaningless in that case. A
// valid reading's distance is always greater than zero.
type Reading struct {
	DistanceCm float64
	Valid      bool
}

// Config describes the sensor's pins and timeout policy.
type Config struct {
	Trigger OutputPin
	Echo    InputPin

	// Timeout bounds each edge wait. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Sensor owns one trigger/echo pin pair. Measure blocks the caller for up to
// twice the timeout, so like the motion controller it expects a single thread
// of control per device.
type Sensor struct {
	trigger OutputPin
	echo    InputPin
	timeout time.Duration
	clock   rover.Clock
}

// New builds a Sensor. A nil clock means the system clock.
func New(cfg Config, clock rover.Clock) (*Sensor, error) {
	if cfg.Trigger == nil {
		return nil, errors.New("missing trigger pin")
	}
	if cfg.Echo == nil {
		return nil, errors.New("missing echo pin")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if clock == nil {
		clock = rover.SystemClock()
	}

	return &Sensor{
		trigger: cfg.Trigger,
		echo:    cfg.Echo,
		timeout: cfg.Timeout,
		clock:   clock,
	}, nil
}

// Measure performs one ping and returns the resulting sample. The echo pulse
// width is measured by busy-polling the echo line; both the wait for the
// rising edge and the pulse itself are bounded by the configured timeout.
func (s *Sensor) Measure() Reading {
	s.trigger.Low()
	s.clock.Sleep(settleDelay)

	s.trigger.High()
	s.clock.Sleep(triggerPulse)
	s.trigger.Low()

	start := s.clock.Now()
	for !s.echo.Get() {
		if s.clock.Now().Sub(start) > s.timeout {
			return Reading{}
		}
	}

	rise := s.clock.Now()
	for s.echo.Get() {
		if s.clock.Now().Sub(rise) > s.timeout {
			return Reading{}
		}
	}

	pulse := s.clock.Now().Sub(rise)
	distance := float64(pulse) / float64(time.Microsecond) * speedOfSoundCmPerUs / 2
	if distance <= 0 {
		return Reading{}
	}

	return Reading{DistanceCm: distance, Valid: true}
}
