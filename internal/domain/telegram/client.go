package telegram

import (
	"context"

	"gopkg.in/telebot.v3"
)

// Client defines an interface for sending messages via a Telegram bot.
// This decouples the dispatch logic from the bot library. The context bounds
// one gateway round-trip so an unreachable gateway cannot stall a scan.
type Client interface {
	SendMessage(ctx context.Context, recipientChatID int64, text string, options *telebot.SendOptions) error
}
