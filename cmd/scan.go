package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"huddygate/src-server/claim"
	"huddygate/src-server/scanner"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var scanFlags struct {
	server   string
	gate     string
	token    string
	passcode string
	station  string
	cooldown time.Duration
	hold     time.Duration
	retries  uint
}

func init() {
	flags := scanCmd.Flags()
	flags.StringVar(&scanFlags.server, "server", "http://localhost:8080", "gate server base URL")
	flags.StringVar(&scanFlags.gate, "gate", claim.KIND_ENTRY, "which gate this station is (entry|gift)")
	flags.StringVar(&scanFlags.token, "token", os.Getenv("STAFF_TOKEN"), "staff token, defaults to $STAFF_TOKEN")
	flags.StringVar(&scanFlags.passcode, "passcode", "", "staff passcode, exchanged for a token on start")
	flags.StringVar(&scanFlags.station, "station", "", "station name shown in logs and tokens (default: hostname)")
	flags.DurationVar(&scanFlags.cooldown, "cooldown", envDuration("SCAN_COOLDOWN", 4*time.Second), "ignore the same code for this long, defaults to $SCAN_COOLDOWN")
	flags.DurationVar(&scanFlags.hold, "hold", envDuration("SCAN_RESULT_HOLD", 5*time.Second), "keep a result on screen for this long, defaults to $SCAN_RESULT_HOLD")
	flags.UintVar(&scanFlags.retries, "retries", 4, "attempts per code when the server is unavailable")
	rootCmd.AddCommand(scanCmd)
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration < 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return duration
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a scan station reading codes from stdin",
	Long: `Reads one code per line (a USB QR reader types them like a keyboard),
submits each to the gate server and shows the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if scanFlags.gate != claim.KIND_ENTRY && scanFlags.gate != claim.KIND_GIFT {
			return fmt.Errorf("--gate must be %s or %s", claim.KIND_ENTRY, claim.KIND_GIFT)
		}
		if scanFlags.station == "" {
			scanFlags.station, _ = os.Hostname()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client := scanner.NewClient(scanFlags.server, scanner.ClientOptions{
			Token:    scanFlags.token,
			MaxTries: scanFlags.retries,
		})

		runner := &scanner.Runner{
			Station:  scanner.NewStation(),
			Cooldown: scanner.NewCooldown(scanFlags.cooldown),
			Claimer:  client,
			Kind:     scanFlags.gate,
			Hold:     scanFlags.hold,
			Prepare: func(ctx context.Context) error {
				if scanFlags.passcode != "" {
					if err := client.Login(ctx, scanFlags.passcode, scanFlags.station); err != nil {
						return err
					}
				}
				return client.Ping(ctx)
			},
			Show: printOutcome,
		}

		codes := make(chan string)
		go func() {
			defer close(codes)
			lines := bufio.NewScanner(cmd.InOrStdin())
			for lines.Scan() {
				select {
				case codes <- lines.Text():
				case <-ctx.Done():
					return
				}
			}
		}()

		slog.Info("station ready", "gate", scanFlags.gate, "station", scanFlags.station, "server", scanFlags.server)
		return runner.Run(ctx, codes)
	},
}

func printOutcome(o scanner.Outcome) {
	paint := color.New(color.FgGreen, color.Bold)
	_, denied := claim.DeniedReason(o.Err)
	switch {
	case o.Err == nil:
	case denied, errors.Is(o.Err, claim.ErrValidation):
		paint = color.New(color.FgRed, color.Bold)
	default:
		paint = color.New(color.FgYellow, color.Bold)
	}
	paint.Println(o.Message)
	if o.Result != nil && o.Result.UpdatedCount > 1 {
		fmt.Printf("  %d registrations under %s\n", o.Result.UpdatedCount, o.Result.Email)
	}
	if o.Err != nil {
		slog.Debug("scan outcome", "code", o.Code, "gate", o.Kind, "error", o.Err)
	}
}
