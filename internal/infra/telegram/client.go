package telegram

import (
	"context"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the telegram.Client interface using the
// gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a text message to the specified chat. The context bounds
// the call; telebot itself has no context support, so the send runs in a
// goroutine and the result is discarded if the context expires first.
func (tba *TelebotAdapter) SendMessage(ctx context.Context, recipientChatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}
	}

	recipient := &telebot.User{ID: recipientChatID} // Owners are direct user chats.

	done := make(chan error, 1)
	go func() {
		_, err := tba.bot.Send(recipient, text, options)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
