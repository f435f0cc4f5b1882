package main

import (
	"huddygate/cmd"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      cmd.LogLevel,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	cmd.Execute()
}
