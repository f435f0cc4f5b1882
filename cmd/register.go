package cmd

import (
	"huddygate/src-server/claim"
	"huddygate/src-server/notify"
	"huddygate/src-server/utils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var registerFlags struct {
	claim.Registration
	noEmail bool
}

func init() {
	flags := registerCmd.Flags()
	flags.StringVar(&registerFlags.Name, "name", "", "attendee name")
	flags.StringVar(&registerFlags.Email, "email", "", "attendee email")
	flags.StringVar(&registerFlags.UniqueCode, "code", "", "reuse an existing code instead of generating one")
	flags.BoolVar(&registerFlags.noEmail, "no-email", false, "don't email the ticket")
	registerCmd.MarkFlagRequired("name")
	registerCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(registerCmd)
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register an attendee straight into the local registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := utils.NewConfig()

		var notifier claim.Notifier
		if key := cfg.GetSendgridAPIKey(); key != "" && !registerFlags.noEmail {
			sg, err := notify.NewSendgrid(key, cfg.GetEmailFrom(), cfg.GetEmailSubject())
			if err != nil {
				return err
			}
			notifier = sg
		}

		as, err := utils.NewAppState(cfg, nil, notifier)
		if err != nil {
			return err
		}
		defer as.GracefulShutdown()

		attendee, err := as.Claims.Register(cmd.Context(), registerFlags.Registration)
		if err != nil {
			return err
		}
		color.New(color.FgGreen, color.Bold).Printf("Registered %s <%s>\n", attendee.Name, attendee.Email)
		color.New(color.FgCyan).Printf("  code:   %s\n", attendee.UniqueCode)
		if attendee.TicketURL != "" {
			color.New(color.FgCyan).Printf("  ticket: %s\n", attendee.TicketURL)
		}
		return nil
	},
}
