package common

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// Identify returns the account id and display name of the invoking user.
// Guild interactions carry Member; DMs carry User.
func Identify(i *discordgo.InteractionCreate) (int64, string, error) {
	var user *discordgo.User
	nick := ""
	switch {
	case i.Member != nil && i.Member.User != nil:
		user, nick = i.Member.User, i.Member.Nick
	case i.User != nil:
		user = i.User
	default:
		return 0, "", fmt.Errorf("interaction has no user")
	}

	id, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("error parsing Discord ID %s: %w", user.ID, err)
	}

	name := nick
	if name == "" {
		name = user.GlobalName
	}
	if name == "" {
		name = user.Username
	}
	return id, name, nil
}
