package main

import (
	"github.com/joho/godotenv"

	"cueplay/internal/cli"
)

func main() {
	// A .env file is optional; ignore the error when it is absent.
	_ = godotenv.Load()

	cli.Execute()
}
