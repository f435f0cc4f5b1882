package scheduler

import (
	"context"
	"fmt"
	"huddygate/src-server/claim"
	"huddygate/src-server/handler"
	"huddygate/src-server/utils"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
)

type embedSender interface {
	ChannelMessageSendEmbeds(channelID string, embeds []*discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type statsSource interface {
	Stats(ctx context.Context) (*claim.Stats, error)
}

type gateReporter struct {
	stats     statsSource
	sender    embedSender
	channelID string
	last      *claim.Stats
}

// GateReport posts the gate numbers to the report channel every
// REPORT_INTERVAL until ctx is done. It returns right away when Discord or
// the channel isn't configured.
func GateReport(ctx context.Context, as *utils.AppState) error {
	channelID := as.Config.GetDiscordReportChannelID()
	if as.DgSession == nil || channelID == "" {
		slog.Info("gate report is off", "reason", "no discord session or report channel")
		return nil
	}

	r := &gateReporter{
		stats:     as.Claims,
		sender:    as.DgSession,
		channelID: channelID,
	}
	ticker := time.NewTicker(as.Config.GetReportInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.post(ctx); err != nil {
				slog.Error("GateReport: can't post report", "error", err)
			}
		}
	}
}

func (r *gateReporter) post(ctx context.Context) error {
	stats, err := r.stats.Stats(ctx)
	if err != nil {
		return fmt.Errorf("(*gateReporter).post: %w", err)
	}

	embed := handler.StatsEmbed("Gate report", stats)
	if r.last != nil {
		embed.Description = fmt.Sprintf("Since the last report: +%d registered, +%d entered, +%d huddies",
			stats.Registered-r.last.Registered, stats.Entered-r.last.Entered, stats.Gifted-r.last.Gifted)
	}
	embed.Timestamp = time.Now().UTC().Format(time.RFC3339)

	if _, err := r.sender.ChannelMessageSendEmbeds(r.channelID, []*discordgo.MessageEmbed{embed}); err != nil {
		return fmt.Errorf("(*gateReporter).post: can't send message: %w", err)
	}
	r.last = stats
	return nil
}
