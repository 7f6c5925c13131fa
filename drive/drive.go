package drive

import (
	"errors"
	"math"
	"time"

	rover "github.com/Luka-Zagar/5hek-Robopopotniki"
)

// tickInterval is the polling granularity of the blocking wait. Each tick also
// evaluates the abort predicate, which is the hook for a future
// obstacle-triggered early stop.
const tickInterval = 5 * time.Millisecond

// Controller is the open-loop motion controller for a two-motor differential
// drive. Every motion command translates a physical quantity into a timed
// actuation: set direction, apply PWM, wait, stop. Commands block until the
// motion completes; the controller is not reentrant and callers must not issue
// a new command while one is in flight.
type Controller struct {
	left  motor
	right motor

	calibration CalibrationConfig

	clock rover.Clock
	abort func() bool

	verbose bool
}

type motor struct {
	throttle PWMChannel
	in1, in2 DigitalPin
}

func (m motor) forward()  { m.in1.High(); m.in2.Low() }
func (m motor) backward() { m.in1.Low(); m.in2.High() }
func (m motor) coast()    { m.in1.Low(); m.in2.Low() }

// New builds a Controller from the two motor configs and the calibration
// ratios. A nil clock means the system clock. The motors are stopped before
// returning so the drivetrain starts from a known state.
func New(left, right MotorConfig, calibration CalibrationConfig, clock rover.Clock) (*Controller, error) {
	if err := validateMotor(left); err != nil {
		return nil, errors.New("left motor: " + err.Error())
	}
	if err := validateMotor(right); err != nil {
		return nil, errors.New("right motor: " + err.Error())
	}
	if err := validateCalibration(calibration); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = rover.SystemClock()
	}

	c := &Controller{
		left:        newMotor(left),
		right:       newMotor(right),
		calibration: calibration,
		clock:       clock,
	}
	c.StopMotors()

	return c, nil
}

func newMotor(cfg MotorConfig) motor {
	in1, in2 := cfg.In1, cfg.In2
	if cfg.Reversed {
		in1, in2 = in2, in1
	}
	return motor{throttle: cfg.Throttle, in1: in1, in2: in2}
}

func validateMotor(cfg MotorConfig) error {
	if cfg.Throttle == nil {
		return errors.New("missing throttle channel")
	}
	if cfg.In1 == nil || cfg.In2 == nil {
		return errors.New("missing direction pin")
	}
	return nil
}

func validateCalibration(cfg CalibrationConfig) error {
	if cfg.MsPerCm <= 0 {
		return errors.New("calibration: MsPerCm must be positive")
	}
	if cfg.MsPerDegree <= 0 {
		return errors.New("calibration: MsPerDegree must be positive")
	}
	return nil
}

// DriveForward drives both wheels forward for the time that corresponds to
// distanceCm under the current calibration, then stops. Non-positive distance
// or speed is a no-op, not an error: callers rely on passing zero to skip a
// move.
func (c *Controller) DriveForward(distanceCm float64, speedPercent int) {
	if distanceCm <= 0 || speedPercent <= 0 {
		return
	}

	runTime := time.Duration(math.Round(distanceCm*c.calibration.MsPerCm)) * time.Millisecond
	if c.verbose {
		println("drive forward", int(distanceCm), "cm ->", int64(runTime/time.Millisecond), "ms at", speedPercent, "%")
	}

	c.left.forward()
	c.right.forward()
	c.applyThrottle(speedPercent)

	c.run(runTime)
}

// DriveBackward is the mirror of DriveForward with both wheels reversed.
func (c *Controller) DriveBackward(distanceCm float64, speedPercent int) {
	if distanceCm <= 0 || speedPercent <= 0 {
		return
	}

	runTime := time.Duration(math.Round(distanceCm*c.calibration.MsPerCm)) * time.Millisecond
	if c.verbose {
		println("drive backward", int(distanceCm), "cm ->", int64(runTime/time.Millisecond), "ms at", speedPercent, "%")
	}

	c.left.backward()
	c.right.backward()
	c.applyThrottle(speedPercent)

	c.run(runTime)
}

// Rotate performs a tank turn in place: positive angles turn right (left wheel
// forward, right wheel backward), negative angles turn left. An angle of
// exactly zero or a non-positive speed is a no-op.
func (c *Controller) Rotate(angleDeg float64, speedPercent int) {
	if angleDeg == 0 || speedPercent <= 0 {
		return
	}

	runTime := time.Duration(math.Round(math.Abs(angleDeg)*c.calibration.MsPerDegree)) * time.Millisecond
	if c.verbose {
		println("rotate", int(angleDeg), "deg ->", int64(runTime/time.Millisecond), "ms at", speedPercent, "%")
	}

	if angleDeg > 0 {
		c.left.forward()
		c.right.backward()
	} else {
		c.left.backward()
		c.right.forward()
	}
	c.applyThrottle(speedPercent)

	c.run(runTime)
}

// StopMotors cuts PWM on both channels and sets all four direction pins low so
// the motors coast. It is idempotent and safe to call at any time, including
// before any move has started.
func (c *Controller) StopMotors() {
	c.left.throttle.Set(0)
	c.right.throttle.Set(0)
	c.left.coast()
	c.right.coast()
}

// applyThrottle sets both duties back to back so the wheels start within the
// same control cycle; skew between the two channels shows up as curve drift.
func (c *Controller) applyThrottle(speedPercent int) {
	duty := SpeedPercentToPWM(speedPercent)
	c.left.throttle.Set(duty)
	c.right.throttle.Set(duty)
}

// run blocks for the requested actuation time, polling in coarse ticks, and
// guarantees the motors stop on every exit path. The abort predicate is
// checked once per tick.
func (c *Controller) run(d time.Duration) {
	defer c.StopMotors()

	start := c.clock.Now()
	for c.clock.Now().Sub(start) < d {
		if c.abort != nil && c.abort() {
			if c.verbose {
				println("motion aborted")
			}
			return
		}
		c.clock.Sleep(tickInterval)
	}
}

// SetAbortFunc installs a predicate evaluated on every wait tick. Returning
// true ends the motion early (the motors still stop). This is how a perception
// component can break a move when an obstacle shows up.
func (c *Controller) SetAbortFunc(f func() bool) {
	c.abort = f
}

// SetCalibration replaces the timing ratios, rejecting non-positive values.
func (c *Controller) SetCalibration(cfg CalibrationConfig) error {
	if err := validateCalibration(cfg); err != nil {
		return err
	}
	c.calibration = cfg
	return nil
}

// Calibration returns the current timing ratios.
func (c *Controller) Calibration() CalibrationConfig {
	return c.calibration
}

// Verbose enables diagnostic output for every motion command.
func (c *Controller) Verbose() {
	c.verbose = true
}

// SpeedPercentToPWM converts a 0-100 speed percentage to an 8-bit PWM duty.
// Out-of-range input is clamped first, so the mapping is total: 0 -> 0,
// 100 -> 255, monotonic in between.
func SpeedPercentToPWM(speedPercent int) uint8 {
	if speedPercent < 0 {
		speedPercent = 0
	}
	if speedPercent > 100 {
		speedPercent = 100
	}
	return uint8(speedPercent * 255 / 100)
}
