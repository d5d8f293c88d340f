package main

import (
	"ticketbot-backend/cmd/ticketbot/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// optional; config values may reference ${VARS} that live in a .env
	godotenv.Load()

	cmd.Execute()
}
