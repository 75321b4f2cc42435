package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Best effort: a missing .env is fine, keys can come from the
	// environment or config.yaml.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
