package ui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/Luka-Zagar/5hek-Robopopotniki/controller"
)

type ConfigWindow struct {
	app      fyne.App
	OnSubmit func()
}

func NewConfigWindow(app fyne.App) *ConfigWindow {
	return &ConfigWindow{
		app: app,
	}
}

func (cw *ConfigWindow) loadConfigFromPreferences(cfg *controller.Config) {
	prefs := cw.app.Preferences()
	cfg.SerialPort = prefs.StringWithFallback("serialPort", "")
	cfg.BaudRate = prefs.StringWithFallback("baudRate", "115200")
	cfg.TelemetryAddr = prefs.StringWithFallback("telemetryAddr", "")
	cfg.RunName = prefs.StringWithFallback("runName", "")
	cfg.SensorsInput = prefs.StringWithFallback("sensorsInput", "1=Range")
}

func (cw *ConfigWindow) saveConfigToPreferences(cfg *controller.Config) {
	prefs := cw.app.Preferences()
	prefs.SetString("serialPort", cfg.SerialPort)
	prefs.SetString("baudRate", cfg.BaudRate)
	prefs.SetString("telemetryAddr", cfg.TelemetryAddr)
	prefs.SetString("runName", cfg.RunName)
	prefs.SetString("sensorsInput", cfg.SensorsInput)
}

func (cw *ConfigWindow) Show(cfg *controller.Config) {
	window := cw.app.NewWindow("Rover - Configuration")
	window.Resize(fyne.NewSize(400, 250))
	window.SetCloseIntercept(func() {
		// Treat window close as cancel
		window.Close()
		cw.app.Quit()
	})
	window.Show()

	// Load config from preferences
	cw.loadConfigFromPreferences(cfg)

	serialPorts, err := controller.GetSerialPorts()
	if err != nil && !errors.Is(err, controller.ErrNoUSBSerial) {
		showError(window, fmt.Errorf("error getting serial ports: %w", err))
		return
	}

	serialPorts = append(serialPorts, controller.SerialPortNone)

	serialEntry := widget.NewSelect(serialPorts, nil)
	if cfg.SerialPort == "" {
		cfg.SerialPort = serialPorts[0]
	}
	serialEntry.Bind(binding.BindString(&cfg.SerialPort))

	baudRateEntry := widget.NewEntry()
	baudRateEntry.Bind(binding.BindString(&cfg.BaudRate))

	telemetryAddrEntry := widget.NewEntry()
	telemetryAddrEntry.Bind(binding.BindString(&cfg.TelemetryAddr))

	runNameEntry := widget.NewEntry()
	runNameEntry.Bind(binding.BindString(&cfg.RunName))

	sensorsEntry := widget.NewEntry()
	sensorsEntry.Bind(binding.BindString(&cfg.SensorsInput))

	submitButton := widget.NewButton("Submit", func() {
		cw.saveConfigToPreferences(cfg)
		cw.OnSubmit()
		window.Close()
	})
	submitButton.Disable()

	validateForm := func() {
		// telemetry fields are optional; the rover itself only needs a port
		if cfg.SerialPort != "" && cfg.BaudRate != "" {
			submitButton.Enable()
		}
	}

	// Add listeners to field changes
	serialEntry.OnChanged = func(_ string) { validateForm() }
	baudRateEntry.OnChanged = func(_ string) { validateForm() }
	validateForm()

	form := container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Serial Port", serialEntry),
			widget.NewFormItem("Baud Rate", baudRateEntry),
			widget.NewFormItem("Telemetry Address", telemetryAddrEntry),
			widget.NewFormItem("Run Name", runNameEntry),
			widget.NewFormItem("Sensors", sensorsEntry),
		),
		submitButton,
	)

	window.SetContent(form)
}

func showError(window fyne.Window, err error) {
	dialog.ShowError(err, window)
}
