// Package commands defines the single-byte serial protocol used to drive the
// rover. Each command is a flag byte followed by a fixed number of input
// bytes, so the firmware can read it without buffering full lines.
package commands

import (
	"errors"
	"strconv"

	"github.com/Luka-Zagar/5hek-Robopopotniki/drive"
	"github.com/Luka-Zagar/5hek-Robopopotniki/sonar"
)

type Command struct {
	Flag        byte
	InputSize   uint
	Run         func(Controller, []byte) error
	Description string
}

// Controller is used to control a rover device.
type Controller interface {
	DriveForward(distanceCm float64, speedPercent int)
	DriveBackward(distanceCm float64, speedPercent int)
	Rotate(angleDeg float64, speedPercent int)
	StopMotors()
	MeasureDistance() sonar.Reading
	SetCalibration(drive.CalibrationConfig) error
	Calibration() drive.CalibrationConfig
	Debug()
	Verbose()

	// I/O
	ReadByte() (byte, error)
}

var (
	ForwardCommand = &Command{
		Flag:      'F',
		InputSize: 6,
		Run: func(c Controller, input []byte) error {
			distance, speed, err := parseMove(input)
			if err != nil {
				return err
			}
			c.DriveForward(distance, speed)
			return nil
		},
		Description: "Drive forward. Input: 3-digit distance (cm), 3-digit speed (percent).",
	}
	BackwardCommand = &Command{
		Flag:      'B',
		InputSize: 6,
		Run: func(c Controller, input []byte) error {
			distance, speed, err := parseMove(input)
			if err != nil {
				return err
			}
			c.DriveBackward(distance, speed)
			return nil
		},
		Description: "Drive backward. Input: 3-digit distance (cm), 3-digit speed (percent).",
	}
	RotateCommand = &Command{
		Flag:      'R',
		InputSize: 7,
		Run: func(c Controller, input []byte) error {
			sign := 1.0
			switch input[0] {
			case '+':
			case '-':
				sign = -1
			default:
				return errors.New("invalid input: " + string(input))
			}

			angle, err := parseDigits(input[1:4])
			if err != nil {
				return err
			}
			speed, err := parseDigits(input[4:7])
			if err != nil {
				return err
			}

			c.Rotate(sign*float64(angle), speed)
			return nil
		},
		Description: "Rotate in place. Input: '+' (right) or '-' (left), 3-digit angle (deg), 3-digit speed (percent).",
	}
	StopCommand = &Command{
		Flag:      'S',
		InputSize: 0,
		Run: func(c Controller, input []byte) error {
			c.StopMotors()
			return nil
		},
		Description: "Stop both motors immediately. Safe to send at any time.",
	}
	MeasureCommand = &Command{
		Flag:      'M',
		InputSize: 0,
		Run: func(c Controller, input []byte) error {
			reading := c.MeasureDistance()
			if !reading.Valid {
				println("range timeout")
				return nil
			}
			println("range " + FormatCenti(reading.DistanceCm) + " cm")
			return nil
		},
		Description: "Measure distance with the ultrasonic sensor and print the result.",
	}
	CalibrateCommand = &Command{
		Flag:      'K',
		InputSize: 5,
		Run: func(c Controller, input []byte) error {
			value, err := parseDigits(input[1:5])
			if err != nil {
				return err
			}

			cfg := c.Calibration()
			switch input[0] {
			case 'c':
				cfg.MsPerCm = float64(value) / 10
			case 'd':
				cfg.MsPerDegree = float64(value) / 10
			default:
				return errors.New("invalid input: " + string(input))
			}

			return c.SetCalibration(cfg)
		},
		Description: "Tune calibration. Input: 'c' (ms/cm) or 'd' (ms/deg), 4-digit value in tenths of a millisecond.",
	}
	DebugCommand = &Command{
		Flag:      'D',
		InputSize: 0,
		Run: func(c Controller, input []byte) error {
			c.Debug()
			return nil
		},
		Description: "Print the current state.",
	}
	VerboseCommand = &Command{
		Flag:      'V',
		InputSize: 0,
		Run: func(c Controller, input []byte) error {
			c.Verbose()
			return nil
		},
		Description: "Enable verbose output.",
	}
	TestCommand = &Command{
		Flag:      'Z',
		InputSize: 1,
		Run: func(c Controller, input []byte) error {
			test := byte('1')
			if len(input) > 0 {
				test = input[0]
			}

			switch test {
			case '1': // turn right then back left, should end facing where it started
				c.Rotate(90, 60)
				c.Rotate(-90, 60)
			case '2': // drive a square, should end where it started
				for range 4 {
					c.DriveForward(30, 60)
					c.Rotate(90, 60)
				}
			case '3': // out and back
				c.DriveForward(50, 60)
				c.Rotate(180, 60)
				c.DriveForward(50, 60)
			}

			return nil
		},
		Description: "Run test routines. Input: '1' (turn test), '2' (square), '3' (out and back).",
	}
	HelpCommand = &Command{
		Flag:        'H',
		InputSize:   0,
		Description: "Show all available commands and their descriptions.",
		Run: func(c Controller, input []byte) error {
			println("Available Commands:")
			for _, cmd := range commands {
				println(string(cmd.Flag) + ": " + cmd.Description)
			}
			return nil
		},
	}
)

var commands = []*Command{
	ForwardCommand,
	BackwardCommand,
	RotateCommand,
	StopCommand,
	MeasureCommand,
	CalibrateCommand,
	DebugCommand,
	VerboseCommand,
	TestCommand,
}

// parseMove reads a 3-digit distance followed by a 3-digit speed percent.
func parseMove(input []byte) (float64, int, error) {
	distance, err := parseDigits(input[:3])
	if err != nil {
		return 0, 0, err
	}
	speed, err := parseDigits(input[3:6])
	if err != nil {
		return 0, 0, err
	}
	return float64(distance), speed, nil
}

// FormatCenti renders a value with two decimal places. It avoids fmt so the
// firmware build stays lean.
func FormatCenti(d float64) string {
	hundredths := int(d*100 + 0.5)
	return strconv.Itoa(hundredths/100) + "." + pad2(hundredths%100)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// parseDigits converts a fixed-width decimal field. Every byte must be a
// digit; there is no whitespace or sign handling at this layer.
func parseDigits(input []byte) (int, error) {
	value := 0
	for _, b := range input {
		if b < '0' || b > '9' {
			return 0, errors.New("invalid input: " + string(input))
		}
		value = value*10 + int(b-'0')
	}
	return value, nil
}

// Run reads commands from the controller's serial line forever. Unknown flag
// bytes (including line terminators echoed by terminals) are skipped.
func Run(c Controller) {
	cmdMap := map[byte]*Command{
		HelpCommand.Flag: HelpCommand,
	}

	for _, cmd := range commands {
		cmdMap[cmd.Flag] = cmd
	}

	for {
		cmdIn, err := c.ReadByte()
		if err != nil {
			continue
		}

		cmd, ok := cmdMap[cmdIn]
		if !ok {
			continue
		}

		in := make([]byte, cmd.InputSize)
		for i := 0; i < int(cmd.InputSize); {
			b, err := c.ReadByte()
			if err != nil {
				continue
			}

			in[i] = b
			i++
		}

		err = cmd.Run(c, in)
		if err != nil {
			println("error:", err.Error())
		}
	}
}
