package main

import (
	"os"

	"lead-intake-go/cmd/lead-intake/commands"
	"lead-intake-go/pkg/logger"
)

func main() {
	log := logger.NewFromEnv()
	if err := commands.NewRootCommand(log).Execute(); err != nil {
		log.Critical("app: command failed", "err", err)
		os.Exit(1)
	}
}
