// Package ui is a fyne teleop panel for the rover: movement buttons and
// sliders that emit protocol command lines, plus a live view of the firmware's
// diagnostic output.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/Luka-Zagar/5hek-Robopopotniki/controller"
)

type RoverUI struct {
	mtx     sync.Mutex
	pending []byte

	logContent *widget.Label
	rangeLabel *widget.Label
}

func NewRoverUI() *RoverUI {
	return &RoverUI{
		logContent: widget.NewLabel(""),
		rangeLabel: widget.NewLabel("range: -"),
	}
}

// Write receives the firmware's serial output. Complete lines are appended to
// the log view; range reports also update the range label.
func (ui *RoverUI) Write(p []byte) (int, error) {
	ui.mtx.Lock()
	ui.pending = append(ui.pending, p...)
	var lines []string
	for {
		i := strings.IndexByte(string(ui.pending), '\n')
		if i < 0 {
			break
		}
		lines = append(lines, strings.TrimRight(string(ui.pending[:i]), "\r"))
		ui.pending = ui.pending[i+1:]
	}
	ui.mtx.Unlock()

	if len(lines) == 0 {
		return len(p), nil
	}

	fyne.Do(func() {
		for _, line := range lines {
			if strings.HasPrefix(line, "range") {
				ui.rangeLabel.SetText(line)
			}
			ui.logContent.SetText(ui.logContent.Text + "\n" + line)
		}
	})
	return len(p), nil
}

func createEntryButtons(labelA, labelB string, defaultValue int, onPress func(value int, b bool)) *fyne.Container {
	entry := widget.NewEntry()
	entry.SetText(strconv.Itoa(defaultValue))

	press := func(b bool) func() {
		return func() {
			value, err := strconv.Atoi(entry.Text)
			if err != nil || value <= 0 {
				fmt.Println("Invalid input. Please enter a positive number.")
				return
			}
			onPress(value, b)
		}
	}

	return container.NewGridWithColumns(3,
		widget.NewButton(labelA, press(true)),
		entry,
		widget.NewButton(labelB, press(false)),
	)
}

// Show builds and shows the teleop window. Commands are written to cmds,
// which the controller reads as its input.
func (ui *RoverUI) Show(ctx context.Context, application fyne.App, cmds io.Writer) {
	window := application.NewWindow("Rover Teleop")

	missionTimer := newTimer()
	lastMoveTimer := newTimer()

	waitForStart := make(chan struct{})
	missionTimer.Go(waitForStart)
	lastMoveTimer.Go(waitForStart)

	rover := &roverCommands{writer: cmds, lastMoveTimer: lastMoveTimer}

	speed := 60
	speedLabel := widget.NewLabel("60")
	speedSlider := widget.NewSlider(10, 100)
	speedSlider.Step = 10
	speedSlider.SetValue(float64(speed))
	speedSlider.OnChanged = func(value float64) {
		speed = int(value)
		speedLabel.SetText(fmt.Sprintf("%.0f", value))
	}

	driveButtons := createEntryButtons("Forward", "Backward", 30, func(distanceCm int, forward bool) {
		if forward {
			rover.Forward(distanceCm, speed)
		} else {
			rover.Backward(distanceCm, speed)
		}
	})

	turnButtons := createEntryButtons("Left", "Right", 90, func(angleDeg int, left bool) {
		if left {
			angleDeg = -angleDeg
		}
		rover.Rotate(angleDeg, speed)
	})

	stopButton := widget.NewButton("STOP", rover.Stop)
	stopButton.Importance = widget.DangerImportance

	measureButton := widget.NewButton("Measure", rover.Measure)

	currentState := stateNone
	var stateButton *widget.Button
	stateButton = widget.NewButton(currentState.next().String(), func() {
		currentState++

		rover.RunStateCommand(currentState)
		lastMoveTimer.Set(time.Now())

		if currentState == stateOutbound {
			missionTimer.Set(time.Now())
			close(waitForStart)
		}

		stateButton.SetText(currentState.next().String())
		if currentState == stateDone {
			stateButton.Disable()
		}
	})

	logScroll := container.NewVScroll(ui.logContent)
	logScroll.SetMinSize(fyne.NewSize(300, 100))
	logAccordion := widget.NewAccordion(
		widget.NewAccordionItem("Firmware Log", logScroll),
	)

	contentContainer := container.NewVBox(
		container.NewHBox(
			container.NewPadded(missionTimer.text),
			container.NewPadded(lastMoveTimer.text),
			layout.NewSpacer(),
			ui.rangeLabel,
		),
		stateButton,
		container.NewGridWithColumns(3, widget.NewLabel("Speed"), speedLabel, layout.NewSpacer()),
		speedSlider,
		driveButtons,
		turnButtons,
		container.NewGridWithColumns(2, stopButton, measureButton),
		logAccordion,
	)

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	window.SetContent(contentContainer)
	window.Resize(fyne.NewSize(350, 300))
	window.Show()
}

// Launch runs the whole UI flow: the configuration window first, then the
// teleop window wired to a controller built from the submitted config.
func Launch(ctx context.Context) {
	application := app.New()

	cfg := &controller.Config{}

	configWindow := NewConfigWindow(application)
	configWindow.OnSubmit = func() {
		go startTeleop(ctx, application, *cfg)
	}
	configWindow.Show(cfg)

	application.Run()
}

func startTeleop(ctx context.Context, application fyne.App, cfg controller.Config) {
	c, err := controller.New(cfg)
	if err != nil {
		fmt.Println("error connecting:", err)
		fyne.Do(application.Quit)
		return
	}
	defer c.Close()

	roverUI := NewRoverUI()

	r, w := io.Pipe()
	defer w.Close()

	fyne.Do(func() {
		roverUI.Show(ctx, application, w)
	})

	err = c.Run(ctx, r, io.MultiWriter(os.Stdout, roverUI))
	if err != nil {
		fmt.Println("error running controller:", err)
	}
}
