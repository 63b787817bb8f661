package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/docent-ai/docent-cli/internal/adapters/driving/cli"
)

func main() {
	// Load credentials from a local .env when present. Absence is fine;
	// the environment and the config file are consulted either way.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
