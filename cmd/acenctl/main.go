package main

import (
	"os"

	"acen-backend/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()
	if err := newRootCmd(defaultEnv()).Execute(); err != nil {
		os.Exit(1)
	}
}
