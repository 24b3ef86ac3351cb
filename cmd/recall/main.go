package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/jaredtewodros/recallBridge/internal/cli"
)

func main() {
	// Local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
