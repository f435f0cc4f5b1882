package handler

import (
	"context"
	"errors"
	"huddygate/src-server/claim"
	"huddygate/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func Checkin(as *utils.AppState) {
	id := "checkin"
	as.AddAppCmdHandler(id, claimHandler(as, claim.KIND_ENTRY))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "Let an attendee in.",
		Options:     []*discordgo.ApplicationCommandOption{codeOption},
	})
}

func Gift(as *utils.AppState) {
	id := "gift"
	as.AddAppCmdHandler(id, claimHandler(as, claim.KIND_GIFT))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "Hand out the huddy to an attendee who is already in.",
		Options:     []*discordgo.ApplicationCommandOption{codeOption},
	})
}

func claimHandler(as *utils.AppState, kind string) func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	do := as.Claims.ClaimEntry
	if kind == claim.KIND_GIFT {
		do = as.Claims.ClaimGift
	}

	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		res, err := do(context.Background(), getCodeOption(i))
		utils.InteractRespHiddenReply(s, i, claim.Message(kind, res, err))

		// denials and bad input are the user's side
		if _, denied := claim.DeniedReason(err); denied || errors.Is(err, claim.ErrValidation) {
			return nil
		}
		return err
	}
}
