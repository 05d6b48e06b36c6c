package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/jsphweid/brailledex/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cmd.Execute()
}
