// Package device binds the pure-Go rover core to the machine package: PWM
// channels, H-bridge pins and the serial console.
package device

import (
	"errors"
	"machine"

	"github.com/Luka-Zagar/5hek-Robopopotniki/commands"
	"github.com/Luka-Zagar/5hek-Robopopotniki/drive"
	"github.com/Luka-Zagar/5hek-Robopopotniki/sonar"
)

// Rover implements commands.Controller on real hardware.
type Rover struct {
	*drive.Controller
	rangefinder RangeFinder
}

// New configures all pins and PWM channels and assembles the rover. The
// motors are left stopped.
func New(cfg Config) (Rover, error) {
	leftThrottle, err := newThrottle(cfg.Left.Throttle)
	if err != nil {
		return Rover{}, errors.New("error creating left throttle: " + err.Error())
	}
	rightThrottle, err := newThrottle(cfg.Right.Throttle)
	if err != nil {
		return Rover{}, errors.New("error creating right throttle: " + err.Error())
	}

	for _, p := range []machine.Pin{cfg.Left.In1, cfg.Left.In2, cfg.Right.In1, cfg.Right.In2} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}

	controller, err := drive.New(
		drive.MotorConfig{Throttle: leftThrottle, In1: cfg.Left.In1, In2: cfg.Left.In2, Reversed: cfg.Left.Reversed},
		drive.MotorConfig{Throttle: rightThrottle, In1: cfg.Right.In1, In2: cfg.Right.In2, Reversed: cfg.Right.Reversed},
		cfg.Calibration,
		nil,
	)
	if err != nil {
		return Rover{}, errors.New("error creating motion controller: " + err.Error())
	}

	rangefinder, err := newRangeFinder(cfg.Sonar)
	if err != nil {
		return Rover{}, errors.New("error creating range finder: " + err.Error())
	}

	return Rover{
		Controller:  controller,
		rangefinder: rangefinder,
	}, nil
}

// MeasureDistance takes a single reading from the ultrasonic sensor.
func (r *Rover) MeasureDistance() sonar.Reading {
	return r.rangefinder.Measure()
}

// Debug prints the current calibration so a tuning session can record it.
func (r *Rover) Debug() {
	cfg := r.Calibration()
	println("calibration ms/cm=" + commands.FormatCenti(cfg.MsPerCm) + " ms/deg=" + commands.FormatCenti(cfg.MsPerDegree))
}

func (r *Rover) ReadByte() (byte, error) {
	return machine.Serial.ReadByte()
}

func (r *Rover) WriteByte(b byte) error {
	return machine.Serial.WriteByte(b)
}

// throttle adapts one channel of a machine PWM group to the 8-bit duty the
// motion controller works in.
type throttle struct {
	pwm interface {
		Top() uint32
		Set(channel uint8, value uint32)
	}
	ch uint8
}

func newThrottle(cfg ThrottleConfig) (throttle, error) {
	err := cfg.PWM.Configure(machine.PWMConfig{Period: pwmPeriod})
	if err != nil {
		return throttle{}, err
	}

	ch, err := cfg.PWM.Channel(cfg.Pin)
	if err != nil {
		return throttle{}, err
	}

	return throttle{pwm: cfg.PWM, ch: ch}, nil
}

func (t throttle) Set(duty uint8) {
	t.pwm.Set(t.ch, uint32(uint64(duty)*uint64(t.pwm.Top())/255))
}
