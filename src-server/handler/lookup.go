package handler

import (
	"context"
	"errors"
	"fmt"
	"huddygate/src-server/claim"
	"huddygate/src-server/model"
	"huddygate/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func Lookup(as *utils.AppState) {
	id := "lookup"
	as.AddAppCmdHandler(id, lookupHandler(as))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "Show an attendee without changing anything.",
		Options:     []*discordgo.ApplicationCommandOption{codeOption},
	})
}

func lookupHandler(as *utils.AppState) func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		attendee, err := as.Claims.Lookup(context.Background(), getCodeOption(i))
		if err != nil {
			utils.InteractRespHiddenReply(s, i, claim.Message(claim.KIND_ENTRY, nil, err))
			if errors.Is(err, claim.ErrNotFound) || errors.Is(err, claim.ErrValidation) {
				return nil
			}
			return fmt.Errorf("lookupHandler: %w", err)
		}
		utils.InteractRespHiddenEmbeds(s, i, []*discordgo.MessageEmbed{attendeeEmbed(attendee)})
		return nil
	}
}

func attendeeEmbed(a *model.Attendee) *discordgo.MessageEmbed {
	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}
	embed := &discordgo.MessageEmbed{
		Title: a.Name,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Email",
				Value: a.Email,
			},
			{
				Name:   "Code",
				Value:  a.UniqueCode,
				Inline: true,
			},
			{
				Name:   "Entered",
				Value:  yesNo(a.IsEntered),
				Inline: true,
			},
			{
				Name:   "Huddy",
				Value:  yesNo(a.IsGifted),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Registered " + a.CreatedAt.Format("2006-01-02 15:04"),
		},
	}
	if a.TicketURL != "" {
		embed.URL = a.TicketURL
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: a.TicketURL}
	}
	return embed
}
