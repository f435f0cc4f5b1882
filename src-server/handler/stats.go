package handler

import (
	"context"
	"fmt"
	"huddygate/src-server/claim"
	"huddygate/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func Stats(as *utils.AppState) {
	id := "stats"
	as.AddAppCmdHandler(id, statsHandler(as))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "How many people registered, came in and got a huddy.",
	})
}

func statsHandler(as *utils.AppState) func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		stats, err := as.Claims.Stats(context.Background())
		if err != nil {
			utils.InteractRespHiddenReply(s, i, claim.Message(claim.KIND_ENTRY, nil, err))
			return fmt.Errorf("statsHandler: %w", err)
		}
		utils.InteractRespHiddenEmbeds(s, i, []*discordgo.MessageEmbed{StatsEmbed("Gate stats", stats)})
		return nil
	}
}

// StatsEmbed is shared with the periodic gate report.
func StatsEmbed(title string, stats *claim.Stats) *discordgo.MessageEmbed {
	percent := func(n int) string {
		if stats.Registered == 0 {
			return fmt.Sprintf("%d", n)
		}
		return fmt.Sprintf("%d (%.0f%%)", n, float64(n)*100/float64(stats.Registered))
	}
	return &discordgo.MessageEmbed{
		Title: title,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Registered",
				Value:  fmt.Sprintf("%d", stats.Registered),
				Inline: true,
			},
			{
				Name:   "Entered",
				Value:  percent(stats.Entered),
				Inline: true,
			},
			{
				Name:   "Huddy",
				Value:  percent(stats.Gifted),
				Inline: true,
			},
		},
	}
}
