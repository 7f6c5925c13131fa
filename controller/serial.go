package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.bug.st/serial"
)

// SerialPortNone disables the serial connection; commands are echoed locally
// instead, which is useful for trying out the UI without hardware.
const SerialPortNone = "none"

var ErrNoUSBSerial = errors.New("no USB serial ports found")

// GetSerialPorts lists the USB serial ports the rover could be connected to.
func GetSerialPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	usb := filterUSBPorts(ports)
	if len(usb) == 0 {
		return nil, ErrNoUSBSerial
	}
	return usb, nil
}

func filterUSBPorts(ports []string) []string {
	var usb []string
	for _, p := range ports {
		for _, marker := range []string{"usbmodem", "usbserial", "ttyACM", "ttyUSB"} {
			if strings.Contains(p, marker) {
				usb = append(usb, p)
				break
			}
		}
	}
	return usb
}

func openPort(cfg Config) (serial.Port, error) {
	baud, err := strconv.Atoi(cfg.BaudRate)
	if err != nil {
		return nil, fmt.Errorf("invalid baud rate %q: %w", cfg.BaudRate, err)
	}

	port, err := serial.Open(cfg.SerialPort, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("error opening serial port %q: %w", cfg.SerialPort, err)
	}
	return port, nil
}
