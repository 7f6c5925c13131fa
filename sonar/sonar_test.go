package sonar

import (
	"math"
	"testing"
	"time"
)

// pollClock advances a small fixed step on every Now so the busy-poll loops in
// Measure make progress deterministically.
type pollClock struct {
	now  time.Time
	step time.Duration
}

func newPollClock() *pollClock {
	return &pollClock{now: time.Unix(0, 0), step: 100 * time.Nanosecond}
}

func (c *pollClock) Now() time.Time {
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

func (c *pollClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

func (c *pollClock) elapsed() time.Duration { return c.now.Sub(time.Unix(0, 0)) }

type fakeTrigger struct {
	pulses []time.Duration
	highAt time.Time
	high   bool
	clock  *pollClock
}

func (p *fakeTrigger) High() {
	p.high = true
	p.highAt = p.clock.now
}

func (p *fakeTrigger) Low() {
	if p.high {
		p.pulses = append(p.pulses, p.clock.now.Sub(p.highAt))
	}
	p.high = false
}

// fakeEcho raises the echo line for the window [rise, rise+pulse) after the
// start of time, simulating a reflection.
type fakeEcho struct {
	clock *pollClock
	rise  time.Duration
	pulse time.Duration
}

func (e *fakeEcho) Get() bool {
	elapsed := e.clock.elapsed()
	return elapsed >= e.rise && elapsed < e.rise+e.pulse
}

func newTestSensor(t *testing.T, rise, pulse time.Duration) (*Sensor, *fakeTrigger) {
	t.Helper()
	clock := newPollClock()
	trigger := &fakeTrigger{clock: clock}
	echo := &fakeEcho{clock: clock, rise: rise, pulse: pulse}

	s, err := New(Config{Trigger: trigger, Echo: echo}, clock)
	if err != nil {
		t.Fatalf("unexpected error creating sensor: %v", err)
	}
	return s, trigger
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{}, nil)
	if err == nil {
		t.Error("expected error for missing pins")
	}

	_, err = New(Config{Trigger: &fakeTrigger{clock: newPollClock()}}, nil)
	if err == nil {
		t.Error("expected error for missing echo pin")
	}
}

func TestMeasure(t *testing.T) {
	// 1000us round trip: (1000 * 0.0343) / 2 = 17.15cm
	s, trigger := newTestSensor(t, 100*time.Microsecond, 1000*time.Microsecond)

	reading := s.Measure()

	if !reading.Valid {
		t.Fatal("expected a valid reading")
	}
	if math.Abs(reading.DistanceCm-17.15) > 0.05 {
		t.Errorf("expected distance close to 17.15cm, got %.3f", reading.DistanceCm)
	}

	// the sensor's trigger protocol is a single 10us pulse
	if len(trigger.pulses) != 1 {
		t.Fatalf("expected exactly one trigger pulse, got %d", len(trigger.pulses))
	}
	if trigger.pulses[0] != 10*time.Microsecond {
		t.Errorf("expected a 10us trigger pulse, got %v", trigger.pulses[0])
	}
}

func TestMeasureCloseTarget(t *testing.T) {
	// 200us round trip: (200 * 0.0343) / 2 = 3.43cm
	s, _ := newTestSensor(t, 50*time.Microsecond, 200*time.Microsecond)

	reading := s.Measure()

	if !reading.Valid {
		t.Fatal("expected a valid reading")
	}
	if reading.DistanceCm <= 0 {
		t.Error("a valid reading must have a positive distance")
	}
	if math.Abs(reading.DistanceCm-3.43) > 0.05 {
		t.Errorf("expected distance close to 3.43cm, got %.3f", reading.DistanceCm)
	}
}

func TestMeasureNoEcho(t *testing.T) {
	// echo never rises: the wait must give up after the timeout window instead
	// of reporting a bogus distance
	s, _ := newTestSensor(t, time.Hour, 0)

	reading := s.Measure()

	if reading.Valid {
		t.Errorf("expected an invalid reading on timeout, got %.3fcm", reading.DistanceCm)
	}
}

func TestMeasureEchoStuckHigh(t *testing.T) {
	// echo rises but never falls, e.g. a disconnected or faulty sensor
	s, _ := newTestSensor(t, 100*time.Microsecond, time.Hour)

	reading := s.Measure()

	if reading.Valid {
		t.Error("expected an invalid reading when the echo never falls")
	}
}

func TestMeasureCustomTimeout(t *testing.T) {
	clock := newPollClock()
	trigger := &fakeTrigger{clock: clock}
	echo := &fakeEcho{clock: clock, rise: time.Hour}

	s, err := New(Config{Trigger: trigger, Echo: echo, Timeout: time.Millisecond}, clock)
	if err != nil {
		t.Fatalf("unexpected error creating sensor: %v", err)
	}

	s.Measure()

	// settle + trigger pulse + one bounded edge wait; well under the default
	// 30ms window
	if clock.elapsed() > 2*time.Millisecond {
		t.Errorf("expected the custom timeout to bound the wait, elapsed %v", clock.elapsed())
	}
}
