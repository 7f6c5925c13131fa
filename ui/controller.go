package ui

import (
	"fmt"
	"io"
	"time"
)

// roverCommands formats teleop actions as protocol command lines and hands
// them to the controller's input pipe.
type roverCommands struct {
	writer        io.Writer
	lastMoveTimer *timer
}

func (c *roverCommands) Forward(distanceCm, speedPercent int) {
	c.lastMoveTimer.Set(time.Now())
	fmt.Fprintf(c.writer, "F%03d%03d\n", distanceCm, speedPercent)
}

func (c *roverCommands) Backward(distanceCm, speedPercent int) {
	c.lastMoveTimer.Set(time.Now())
	fmt.Fprintf(c.writer, "B%03d%03d\n", distanceCm, speedPercent)
}

func (c *roverCommands) Rotate(angleDeg, speedPercent int) {
	c.lastMoveTimer.Set(time.Now())
	sign := "+"
	if angleDeg < 0 {
		sign = "-"
		angleDeg = -angleDeg
	}
	fmt.Fprintf(c.writer, "R%s%03d%03d\n", sign, angleDeg, speedPercent)
}

func (c *roverCommands) Stop() {
	fmt.Fprintln(c.writer, "S")
}

func (c *roverCommands) Measure() {
	fmt.Fprintln(c.writer, "M")
}

func (c *roverCommands) RunStateCommand(s state) {
	stateCommand := s.command()
	if stateCommand != "" {
		fmt.Fprintf(c.writer, "%s\n", stateCommand)
	}
}
