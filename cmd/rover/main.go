package main

import (
	"context"
	"flag"
	"os"

	"github.com/Luka-Zagar/5hek-Robopopotniki/controller"
	"github.com/Luka-Zagar/5hek-Robopopotniki/ui"
)

func main() {
	var runName, sensorsInput string
	flag.StringVar(&runName, "run", "", "Run name for the telemetry session")
	flag.StringVar(&sensorsInput, "sensors", "", "Sensor mapping in format \"1=Name,2=Name,...\". Default is 1=Range")
	flag.Parse()

	if os.Getenv("ENABLE_UI") == "true" {
		runUI()
		return
	}

	runCLI(runName, sensorsInput)
}

func runUI() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ui.Launch(ctx)
}

func runCLI(runName, sensorsInput string) {
	cfg := controller.ConfigFromEnv()
	if runName != "" {
		cfg.RunName = runName
	}
	if sensorsInput != "" {
		cfg.SensorsInput = sensorsInput
	}

	c, err := controller.New(cfg)
	if err != nil {
		panic(err)
	}
	defer c.Close()

	err = c.Run(context.Background(), os.Stdin, os.Stdout)
	if err != nil {
		panic(err)
	}
}
