package device

import (
	"machine"

	"github.com/Luka-Zagar/5hek-Robopopotniki/sonar"
	"tinygo.org/x/drivers/hcsr04"
)

// RangeFinder is anything that can produce a distance sample.
type RangeFinder interface {
	Measure() sonar.Reading
}

func newRangeFinder(cfg SonarConfig) (RangeFinder, error) {
	if cfg.UseDriver {
		return newDriverRangeFinder(cfg), nil
	}

	cfg.Trigger.Configure(machine.PinConfig{Mode: machine.PinOutput})
	cfg.Echo.Configure(machine.PinConfig{Mode: machine.PinInput})

	return sonar.New(sonar.Config{Trigger: cfg.Trigger, Echo: cfg.Echo}, nil)
}

// driverRangeFinder backs the sensor with the tinygo.org/x/drivers hcsr04
// driver instead of the built-in pulse-width routine. Useful as a cross-check
// when tuning the timeout policy.
type driverRangeFinder struct {
	dev hcsr04.Device
}

func newDriverRangeFinder(cfg SonarConfig) *driverRangeFinder {
	dev := hcsr04.New(cfg.Trigger, cfg.Echo)
	dev.Configure()
	return &driverRangeFinder{dev: dev}
}

func (d *driverRangeFinder) Measure() sonar.Reading {
	mm := d.dev.ReadDistance()
	if mm <= 0 {
		return sonar.Reading{}
	}
	return sonar.Reading{DistanceCm: float64(mm) / 10, Valid: true}
}
