package main

import (
	"github.com/joho/godotenv"
	"github.com/program-ledger/console/cmd"
)

func main() {
	// A .env file is optional, the environment always takes precedence
	_ = godotenv.Load()

	cmd.Execute()
}
