package main

import (
	"os"

	"github.com/art-dzd/news-bot/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
