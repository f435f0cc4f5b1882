package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// LogLevel is shared with the slog handler installed by main.
var LogLevel = new(slog.LevelVar)

var logLevelFlag = "debug"

var rootCmd = &cobra.Command{
	Use:   "huddygate",
	Short: "Event check-in and huddy counter",
	Long: `huddygate keeps the attendee registry and decides, exactly once, who may
enter the event and who may collect a huddy. Run "serve" at the venue and
"scan" at each gate.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return LogLevel.UnmarshalText([]byte(logLevelFlag))
	},
	SilenceUsage: true,
}

func init() {
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		logLevelFlag = logLevel
	}
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", logLevelFlag, "logging level (debug|info|warn|error)")
}

// Execute the commands
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
