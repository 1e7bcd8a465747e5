package main

import (
	"log"

	"github.com/patric-chuzhbe/exercisetracker/internal/app"
	"github.com/patric-chuzhbe/exercisetracker/internal/logger"
)

func main() {
	theApp, err := app.New()
	if err != nil {
		log.Fatalf("unable to start the exercise tracker: %v", err)
	}
	defer theApp.Close()

	if err := theApp.Run(); err != nil {
		logger.Log.Errorw("exercise tracker stopped", "error", err)
	}
}
