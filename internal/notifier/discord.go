package notifier

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/outing-api/internal/models"
)

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// NewDiscordNotifierFromToken opens a bot session for token.
func NewDiscordNotifierFromToken(token, channelID string) (*DiscordNotifier, error) {
	if token == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return NewDiscordNotifier(session, channelID), nil
}

func (n *DiscordNotifier) NotifyParticipation(ctx context.Context, user models.User, p models.Participation) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	message := summary("🎉 **Participation Update**", user, p)
	if user.ExternalID != "" {
		message += fmt.Sprintf("\n<@%s>", user.ExternalID)
	}

	_, err := n.session.ChannelMessageSend(n.channelID, message, discordgo.WithContext(ctx))
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}
