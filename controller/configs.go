package controller

import "os"

// Config holds everything the host-side controller needs: where the rover is
// plugged in and, optionally, where to record the run.
type Config struct {
	// SerialPort is the device path of the rover's USB serial port. Empty
	// means the first detected USB port; SerialPortNone disables serial.
	SerialPort string
	BaudRate   string

	// TelemetryAddr is the base URL of a twchart session service. Empty means
	// telemetry is disabled and a noop client is used.
	TelemetryAddr string
	// RunName names the telemetry session. Empty means no session is created.
	RunName string
	// SensorsInput maps probe positions to names, e.g. "1=Range".
	SensorsInput string
}

// ConfigFromEnv reads the ROVER_* environment variables.
func ConfigFromEnv() Config {
	return Config{
		SerialPort:    os.Getenv("ROVER_SERIAL_PORT"),
		BaudRate:      envDefault("ROVER_BAUD_RATE", "115200"),
		TelemetryAddr: os.Getenv("ROVER_TELEMETRY_ADDR"),
		RunName:       os.Getenv("ROVER_RUN_NAME"),
		SensorsInput:  envDefault("ROVER_SENSORS", "1=Range"),
	}
}

// NewFromEnv builds a Controller from ROVER_* environment variables.
func NewFromEnv() (*Controller, error) {
	return New(ConfigFromEnv())
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
