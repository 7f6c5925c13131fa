package commands

import (
	"testing"

	"github.com/Luka-Zagar/5hek-Robopopotniki/drive"
	"github.com/Luka-Zagar/5hek-Robopopotniki/sonar"
)

type call struct {
	name     string
	distance float64
	angle    float64
	speed    int
}

type fakeRover struct {
	calls       []call
	calibration drive.CalibrationConfig
	reading     sonar.Reading
}

func newFakeRover() *fakeRover {
	return &fakeRover{calibration: drive.DefaultCalibration()}
}

func (r *fakeRover) DriveForward(distanceCm float64, speedPercent int) {
	r.calls = append(r.calls, call{name: "forward", distance: distanceCm, speed: speedPercent})
}

func (r *fakeRover) DriveBackward(distanceCm float64, speedPercent int) {
	r.calls = append(r.calls, call{name: "backward", distance: distanceCm, speed: speedPercent})
}

func (r *fakeRover) Rotate(angleDeg float64, speedPercent int) {
	r.calls = append(r.calls, call{name: "rotate", angle: angleDeg, speed: speedPercent})
}

func (r *fakeRover) StopMotors() {
	r.calls = append(r.calls, call{name: "stop"})
}

func (r *fakeRover) MeasureDistance() sonar.Reading {
	r.calls = append(r.calls, call{name: "measure"})
	return r.reading
}

func (r *fakeRover) SetCalibration(cfg drive.CalibrationConfig) error {
	if cfg.MsPerCm <= 0 || cfg.MsPerDegree <= 0 {
		return errInvalidCalibration
	}
	r.calibration = cfg
	return nil
}

var errInvalidCalibration = &calibrationError{}

type calibrationError struct{}

func (*calibrationError) Error() string { return "invalid calibration" }

func (r *fakeRover) Calibration() drive.CalibrationConfig { return r.calibration }
func (r *fakeRover) Debug()                               {}
func (r *fakeRover) Verbose()                             {}
func (r *fakeRover) ReadByte() (byte, error)              { return 0, nil }

func TestForwardCommand(t *testing.T) {
	r := newFakeRover()

	err := ForwardCommand.Run(r, []byte("050060"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(r.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(r.calls))
	}
	got := r.calls[0]
	if got.name != "forward" || got.distance != 50 || got.speed != 60 {
		t.Errorf("expected forward 50cm at 60%%, got %+v", got)
	}
}

func TestForwardCommandInvalidInput(t *testing.T) {
	r := newFakeRover()

	err := ForwardCommand.Run(r, []byte("05x060"))
	if err == nil {
		t.Error("expected error for non-digit distance")
	}
	if len(r.calls) != 0 {
		t.Errorf("invalid input should not reach the controller, got %+v", r.calls)
	}
}

func TestBackwardCommand(t *testing.T) {
	r := newFakeRover()

	err := BackwardCommand.Run(r, []byte("010100"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := r.calls[0]
	if got.name != "backward" || got.distance != 10 || got.speed != 100 {
		t.Errorf("expected backward 10cm at 100%%, got %+v", got)
	}
}

func TestRotateCommand(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedAngle float64
	}{
		{"Right", "+090060", 90},
		{"Left", "-090060", -90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFakeRover()

			err := RotateCommand.Run(r, []byte(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := r.calls[0]
			if got.name != "rotate" || got.angle != tt.expectedAngle || got.speed != 60 {
				t.Errorf("expected rotate %v at 60%%, got %+v", tt.expectedAngle, got)
			}
		})
	}

	t.Run("BadSign", func(t *testing.T) {
		r := newFakeRover()
		err := RotateCommand.Run(r, []byte("x090060"))
		if err == nil {
			t.Error("expected error for missing sign byte")
		}
	})
}

func TestStopCommand(t *testing.T) {
	r := newFakeRover()

	err := StopCommand.Run(r, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.calls) != 1 || r.calls[0].name != "stop" {
		t.Errorf("expected a single stop call, got %+v", r.calls)
	}
}

func TestMeasureCommand(t *testing.T) {
	r := newFakeRover()
	r.reading = sonar.Reading{DistanceCm: 17.15, Valid: true}

	err := MeasureCommand.Run(r, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.calls) != 1 || r.calls[0].name != "measure" {
		t.Errorf("expected a single measure call, got %+v", r.calls)
	}

	// timeout readings are not errors either
	r.reading = sonar.Reading{}
	err = MeasureCommand.Run(r, nil)
	if err != nil {
		t.Errorf("timeout reading should not be a command error: %v", err)
	}
}

func TestCalibrateCommand(t *testing.T) {
	r := newFakeRover()

	err := CalibrateCommand.Run(r, []byte("c1000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.calibration.MsPerCm != 100.0 {
		t.Errorf("expected MsPerCm=100.0, got %v", r.calibration.MsPerCm)
	}
	if r.calibration.MsPerDegree != 8.4 {
		t.Errorf("expected MsPerDegree untouched at 8.4, got %v", r.calibration.MsPerDegree)
	}

	err = CalibrateCommand.Run(r, []byte("d0090"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.calibration.MsPerDegree != 9.0 {
		t.Errorf("expected MsPerDegree=9.0, got %v", r.calibration.MsPerDegree)
	}

	err = CalibrateCommand.Run(r, []byte("c0000"))
	if err == nil {
		t.Error("expected error for zero calibration value")
	}

	err = CalibrateCommand.Run(r, []byte("x0100"))
	if err == nil {
		t.Error("expected error for unknown calibration axis")
	}
}

func TestTestCommand(t *testing.T) {
	r := newFakeRover()

	err := TestCommand.Run(r, []byte("1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(r.calls) != 2 {
		t.Fatalf("expected 2 calls, got %+v", r.calls)
	}
	if r.calls[0].angle != 90 || r.calls[1].angle != -90 {
		t.Errorf("expected a right then left 90 degree turn, got %+v", r.calls)
	}
}

func TestFormatCenti(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{17.15, "17.15"},
		{3.43, "3.43"},
		{0.05, "0.05"},
		{120, "120.00"},
	}

	for _, tt := range tests {
		if got := FormatCenti(tt.in); got != tt.expected {
			t.Errorf("FormatCenti(%v): expected=%q, got=%q", tt.in, tt.expected, got)
		}
	}
}
