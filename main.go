package main

import (
	"timesheet-service/cmd"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	cmd.Execute()
}
