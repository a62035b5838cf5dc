// Package notify posts governance events to a Discord channel.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/bwmarrin/discordgo"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const (
	colorProposal = 0x0099ff
	colorWarning  = 0xf5a623

	maxDescription = 1024
)

type Discord struct {
	sender    Sender
	channelID string
	network   model.Network
	logger    *zap.Logger
}

// NewDiscord opens a bot session that posts into channelID.
func NewDiscord(token, channelID string, network model.Network, logger *zap.Logger) (*Discord, error) {
	if token == "" {
		return nil, errors.New("discord token is required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return NewDiscordWithSender(session, channelID, network, logger)
}

func NewDiscordWithSender(sender Sender, channelID string, network model.Network, logger *zap.Logger) (*Discord, error) {
	if channelID == "" {
		return nil, errors.New("discord channel id is required")
	}
	return &Discord{
		sender:    sender,
		channelID: channelID,
		network:   network,
		logger:    logger.With(zap.String("component", "discord_notifier")),
	}, nil
}

// ProposalCreated announces a proposal seen for the first time.
func (d *Discord) ProposalCreated(ctx context.Context, community model.Community, p model.Proposal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	embed := proposalEmbed(d.network, community, p)
	if _, err := d.sender.ChannelMessageSendEmbed(d.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send proposal %s: %w", p.ID, err)
	}
	d.logger.Debug("proposal announced",
		zap.Stringer("proposal_id", p.ID),
		zap.String("governor", community.Governor.Hex()),
	)
	return nil
}

// TallyDecreased warns that a recorded tally went backwards.
func (d *Discord) TallyDecreased(ctx context.Context, community model.Community, dec model.TallyDecrease) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Tally decreased on proposal %s", shortID(dec.ProposalID.String())),
		Description: fmt.Sprintf("Total votes went from %s to %s. The chain likely reorganised.", dec.Previous, dec.Observed),
		Color:       colorWarning,
		Timestamp:   dec.DetectedAt.UTC().Format(time.RFC3339),
		Footer:      footer(d.network, community),
	}
	if _, err := d.sender.ChannelMessageSendEmbed(d.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send tally decrease %s: %w", dec.ProposalID, err)
	}
	return nil
}

func proposalEmbed(network model.Network, community model.Community, p model.Proposal) *discordgo.MessageEmbed {
	title := p.Title
	if title == "" {
		title = fmt.Sprintf("Proposal %s", shortID(p.ID.String()))
	}
	description := p.Summary
	if description == "" {
		description = p.Body
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "State", Value: p.State.Label(), Inline: true},
		{Name: "Type", Value: string(p.Type), Inline: true},
		{Name: "Proposer", Value: model.ShortHash(p.Proposer.Hex()), Inline: true},
	}
	if p.Snapshot != nil && p.Deadline != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Voting window",
			Value: fmt.Sprintf("blocks %s to %s", p.Snapshot, p.Deadline),
		})
	}
	if p.TxHash != (common.Hash{}) {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Transaction",
			Value: fmt.Sprintf("[%s](%s)", model.ShortHash(p.TxHash.Hex()), model.TransactionURL(network, p.TxHash)),
		})
	}

	return &discordgo.MessageEmbed{
		Title:       truncate(title, 256),
		Description: truncate(description, maxDescription),
		Color:       colorProposal,
		Fields:      fields,
		Footer:      footer(network, community),
	}
}

func footer(network model.Network, community model.Community) *discordgo.MessageEmbedFooter {
	id := "?"
	if community.ID != nil {
		id = community.ID.String()
	}
	return &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("%s | community #%s", network, id),
	}
}

func shortID(id string) string {
	return model.ShortHash(id)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
