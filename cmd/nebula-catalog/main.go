package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ajitpratap0/nebula-catalog/pkg/logger"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := newRootCommand()
	err := root.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
