// Package notify provides the notification-delivery collaborators: a
// Discord channel sender, a database-backed queue for scheduled
// notifications, and a log-only fallback.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Discord delivers notifications as embeds to one configured channel.
// It ignores the schedule argument; deferral lives in Queue.
type Discord struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscord(session *discordgo.Session, channelID string) (*Discord, error) {
	if session == nil {
		return nil, fmt.Errorf("NewDiscord: session is nil")
	}
	if channelID == "" {
		return nil, fmt.Errorf("NewDiscord: channel id is blank")
	}
	return &Discord{session: session, channelID: channelID}, nil
}

func (d *Discord) Schedule(ctx context.Context, title, body string, data map[string]string, when *time.Time) (string, error) {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: body,
	}
	if eventID, ok := data["eventId"]; ok {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: eventID}
	}
	msg, err := d.session.ChannelMessageSendEmbed(d.channelID, embed)
	if err != nil {
		return "", fmt.Errorf("(*Discord).Schedule: can't send message: %w", err)
	}
	return msg.ID, nil
}
