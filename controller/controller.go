// Package controller is the host side of the rover: it forwards teleop
// commands to the firmware over USB serial, echoes the firmware's diagnostic
// output, and records the run to a telemetry service when one is configured.
package controller

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Luka-Zagar/5hek-Robopopotniki/telemetry"
	"go.bug.st/serial"
)

type telemetryClient interface {
	CreateRun(ctx context.Context, name string, sensors telemetry.Sensors) (string, error)
	SetStartTime(ctx context.Context, startTime time.Time) error
	AddEvent(ctx context.Context, note string, now time.Time) error
	AddStage(ctx context.Context, name string, now time.Time) error
	Done(ctx context.Context) error
}

type noopTelemetryClient struct{}

var _ telemetryClient = noopTelemetryClient{}

func (noopTelemetryClient) CreateRun(ctx context.Context, name string, sensors telemetry.Sensors) (string, error) {
	return "", nil
}
func (noopTelemetryClient) SetStartTime(ctx context.Context, startTime time.Time) error { return nil }
func (noopTelemetryClient) AddEvent(ctx context.Context, note string, now time.Time) error {
	return nil
}
func (noopTelemetryClient) AddStage(ctx context.Context, name string, now time.Time) error {
	return nil
}
func (noopTelemetryClient) Done(ctx context.Context) error { return nil }

type Controller struct {
	cfg       Config
	port      serial.Port
	telemetry telemetryClient
}

// New connects to the configured serial port (unless it is SerialPortNone) and
// sets up the telemetry client.
func New(cfg Config) (*Controller, error) {
	c := &Controller{
		cfg:       cfg,
		telemetry: noopTelemetryClient{},
	}

	if cfg.TelemetryAddr != "" {
		c.telemetry = telemetry.NewClient(cfg.TelemetryAddr)
	}

	if cfg.SerialPort == "" {
		ports, err := GetSerialPorts()
		if err != nil {
			return nil, err
		}
		cfg.SerialPort = ports[0]
		c.cfg = cfg
	}

	if cfg.SerialPort != SerialPortNone {
		port, err := openPort(cfg)
		if err != nil {
			return nil, err
		}
		c.port = port
	}

	return c, nil
}

func (c *Controller) Close() error {
	if c.port == nil {
		return nil
	}
	return c.port.Close()
}

// Run reads command lines from in until EOF or context cancellation. Lines
// starting with an uppercase meta keyword (START, MARK, STAGE, DONE) are
// recorded to telemetry; everything else is sent to the firmware verbatim.
// Firmware output is copied to out.
func (c *Controller) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if c.cfg.RunName != "" {
		sensors, err := telemetry.ParseSensors(c.cfg.SensorsInput)
		if err != nil {
			return fmt.Errorf("error parsing sensors: %w", err)
		}

		id, err := c.telemetry.CreateRun(ctx, c.cfg.RunName, sensors)
		if err != nil {
			return fmt.Errorf("error creating telemetry run: %w", err)
		}
		if id != "" {
			fmt.Fprintf(out, "telemetry run: %s\n", id)
		}
	}

	if c.port != nil {
		go c.copySerial(ctx, out)
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := c.handleLine(ctx, line, out); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (c *Controller) handleLine(ctx context.Context, line string, out io.Writer) error {
	now := time.Now()
	switch {
	case line == "START":
		return c.telemetry.SetStartTime(ctx, now)
	case strings.HasPrefix(line, "MARK "):
		return c.telemetry.AddEvent(ctx, strings.TrimPrefix(line, "MARK "), now)
	case strings.HasPrefix(line, "STAGE "):
		return c.telemetry.AddStage(ctx, strings.TrimPrefix(line, "STAGE "), now)
	case line == "DONE":
		return c.telemetry.Done(ctx)
	}

	if err := c.send(line); err != nil {
		return err
	}

	// every forwarded command also becomes a telemetry event so the session
	// timeline lines up with the sensor data
	return c.telemetry.AddEvent(ctx, line, now)
}

func (c *Controller) send(line string) error {
	if c.port == nil {
		return nil
	}
	_, err := c.port.Write([]byte(line))
	return err
}

func (c *Controller) copySerial(ctx context.Context, out io.Writer) {
	buf := make([]byte, 256)
	for ctx.Err() == nil {
		n, err := c.port.Read(buf)
		if err != nil {
			return
		}
		if n > 0 {
			out.Write(buf[:n])
		}
	}
}
