package cmd

import (
	"context"
	"errors"
	"fmt"
	"huddygate/src-server/claim"
	"huddygate/src-server/handler"
	"huddygate/src-server/metric"
	"huddygate/src-server/notify"
	"huddygate/src-server/route"
	"huddygate/src-server/scheduler"
	"huddygate/src-server/utils"
	"log/slog"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gate server",
	Long:  `Open the registry, serve the HTTP API and, when configured, the Discord commands and gate reports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := utils.NewConfig()

		var notifier claim.Notifier
		if key := cfg.GetSendgridAPIKey(); key != "" {
			sg, err := notify.NewSendgrid(key, cfg.GetEmailFrom(), cfg.GetEmailSubject())
			if err != nil {
				return err
			}
			notifier = sg
		}

		as, err := utils.NewAppState(cfg, metric.NewRecorder(prometheus.DefaultRegisterer), notifier)
		if err != nil {
			return err
		}
		defer as.GracefulShutdown()

		if as.DgSession != nil {
			if err := startDiscord(as); err != nil {
				return err
			}
		}

		metric.Init(as)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		g, gctx := errgroup.WithContext(ctx)

		srv := &http.Server{
			Addr:              ":" + cfg.GetPort(),
			Handler:           route.NewMux(as, prometheus.DefaultGatherer),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			slog.Info("app is now running, press Ctrl+C to exit", "port", cfg.GetPort())
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("cannot start HTTP server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			return scheduler.GateReport(gctx, as)
		})
		g.Go(func() error {
			<-gctx.Done()
			slog.Info("Gracefully shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func startDiscord(as *utils.AppState) error {
	// injecting interaction handlers into appCmdInfo, appCmdHandler in AppState
	handler.Init(as)

	// tell discordgo how to handle interactions from Discord (w/ appCmdHandler)
	as.DgSession.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			slog.Debug("ignoring interaction", "type", i.Type)
			return
		}
		id := i.ApplicationCommandData().Name
		cmdHandler, ok := as.GetAppCmdHandler(id)
		if !ok {
			utils.InteractRespHiddenReply(s, i, "Unknown command")
			return
		}
		if err := cmdHandler(s, i); err != nil {
			slog.Error("handler error", "command", id, "error", err)
		}
	})

	// open a connection to Discord
	if err := as.DgSession.Open(); err != nil {
		return fmt.Errorf("startDiscord: can't open connection: %w", err)
	}

	// tell Discord what commands we have (w/ appCmdInfo)
	var cmds []*discordgo.ApplicationCommand
	as.IterateAppCmdInfo(func(k string, v *discordgo.ApplicationCommand) {
		cmds = append(cmds, v)
	})
	if _, err := as.DgSession.ApplicationCommandBulkOverwrite(
		as.Config.GetDiscordClientId(),
		as.Config.GetDiscordGuildID(),
		cmds,
	); err != nil {
		slog.Error("can't create slash commands", "error", err)
	}

	// cleanup appCmdInfo from memory
	as.NukeAppCmdInfo()
	runtime.GC()

	slog.Info("discord is connected", "guilds", len(as.DgSession.State.Guilds))
	return nil
}
