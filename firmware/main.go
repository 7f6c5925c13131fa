package main

import (
	"machine"

	"github.com/Luka-Zagar/5hek-Robopopotniki/commands"
	"github.com/Luka-Zagar/5hek-Robopopotniki/drive"
	"github.com/Luka-Zagar/5hek-Robopopotniki/firmware/device"
)

//go:generate tinygo flash -target=pico

func main() {
	cfg := device.Config{
		// left motor: ENA on GP25 (PWM slice 4), IN1/IN2 on GP26/GP27
		Left: device.MotorConfig{
			Throttle: device.ThrottleConfig{PWM: machine.PWM4, Pin: machine.GP25},
			In1:      machine.GP26,
			In2:      machine.GP27,
		},
		// right motor: ENB on GP14 (PWM slice 7), IN3/IN4 on GP12/GP13
		Right: device.MotorConfig{
			Throttle: device.ThrottleConfig{PWM: machine.PWM7, Pin: machine.GP14},
			In1:      machine.GP12,
			In2:      machine.GP13,
		},
		Sonar: device.SonarConfig{
			Trigger: machine.GP4,
			Echo:    machine.GP5,
		},
		Calibration: drive.DefaultCalibration(),
	}

	r, err := device.New(cfg)
	if err != nil {
		panic(err)
	}

	commands.Run(&r)
}
