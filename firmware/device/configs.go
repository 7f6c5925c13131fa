package device

import (
	"machine"

	"github.com/Luka-Zagar/5hek-Robopopotniki/drive"
	"tinygo.org/x/drivers/servo"
)

// pwmPeriod is 2kHz, a frequency the L298N-style bridge is comfortable with.
const pwmPeriod = 500_000 // ns

// ThrottleConfig is the PWM group and pin driving one motor's enable input.
type ThrottleConfig struct {
	PWM servo.PWM
	Pin machine.Pin
}

// MotorConfig has the pins for one side of the drivetrain. Reversed flips the
// direction-pin polarity when the motor leads are wired the other way around.
type MotorConfig struct {
	Throttle ThrottleConfig
	In1      machine.Pin
	In2      machine.Pin
	Reversed bool
}

// SonarConfig has the ultrasonic sensor's pins. UseDriver switches from the
// built-in pulse-width routine to the tinygo.org/x/drivers hcsr04 driver.
type SonarConfig struct {
	Trigger   machine.Pin
	Echo      machine.Pin
	UseDriver bool
}

// Config assembles a whole rover.
type Config struct {
	Left        MotorConfig
	Right       MotorConfig
	Sonar       SonarConfig
	Calibration drive.CalibrationConfig
}
