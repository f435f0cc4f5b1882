package handler

import (
	"huddygate/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

// Init injects every slash command into appCmdInfo and appCmdHandler in
// AppState.
func Init(as *utils.AppState) {
	Checkin(as)
	Gift(as)
	Lookup(as)
	Stats(as)
	Ping(as)
}

var codeOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionString,
	Name:        "code",
	Description: "The code printed under the attendee's QR.",
	Required:    true,
}

func getCodeOption(i *discordgo.InteractionCreate) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == codeOption.Name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}
