package main

import (
	"os"

	"creatorflow/internal/commands"
	appLog "creatorflow/internal/log"
)

func main() {
	err := commands.New().Execute()
	if err != nil {
		appLog.Error("command failed", err)
	}
	appLog.Sync()
	if err != nil {
		os.Exit(1)
	}
}
