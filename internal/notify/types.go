package notify

import "github.com/bwmarrin/discordgo"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Sender is the part of *discordgo.Session the notifier needs.
	Sender interface {
		ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	}
)
