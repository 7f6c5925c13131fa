package drive

// PWMChannel is a single 8-bit PWM output controlling a motor's average power.
// The firmware backs this with a 2 kHz machine PWM channel; tests use fakes.
type PWMChannel interface {
	Set(duty uint8)
}

// DigitalPin is a single digital output, one half of an H-bridge direction pair.
type DigitalPin interface {
	High()
	Low()
}

// MotorConfig describes one side of the drivetrain: the PWM enable channel and
// the IN1/IN2 direction pin pair of the H-bridge.
type MotorConfig struct {
	Throttle PWMChannel
	In1      DigitalPin
	In2      DigitalPin

	// Reversed swaps the meaning of the direction pins. Which pin level means
	// "forward" depends on how the motor leads are wired to the bridge, so it
	// has to stay configurable per motor.
	Reversed bool
}

// CalibrationConfig holds the open-loop timing ratios. Accuracy is entirely a
// function of how well these match the drivetrain under the current battery,
// floor and load conditions, so tune them by driving known distances.
type CalibrationConfig struct {
	// MsPerCm is how many milliseconds of actuation produce one centimeter of
	// linear travel. Must be > 0.
	MsPerCm float64
	// MsPerDegree is how many milliseconds of tank turn produce one degree of
	// rotation. Must be > 0.
	MsPerDegree float64
}

// DefaultCalibration returns rough starting values for a small two-motor robot.
// If the robot travels or turns too far, reduce the constant; if not far
// enough, increase it.
func DefaultCalibration() CalibrationConfig {
	return CalibrationConfig{
		MsPerCm:     80.0,
		MsPerDegree: 8.4,
	}
}
