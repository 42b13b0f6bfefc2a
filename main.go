package main

import (
	"github.com/joho/godotenv"

	"github.com/ahmadzendi/monitor-emas7/internal/cli"
)

func main() {
	// Optional; secrets such as MONITOREMAS_TELEGRAM_BOT_TOKEN may live in .env.
	_ = godotenv.Load()

	cli.Execute()
}
