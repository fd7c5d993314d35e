package main

import (
	"context"
	"time"

	"powermodule-go/services/hal"
	"powermodule-go/services/system"
	"powermodule-go/setups"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	sys, err := system.New(hal.NewProvider(), setups.Selected)
	if err != nil {
		println("[system] setup failed:", err.Error())
		for {
			time.Sleep(time.Second)
		}
	}
	sys.Start(context.Background())
	sys.Wait()
}
