// Package directory defines the recipient directory: the keyed mapping from
// a room's owner to a registered messaging recipient and their language
// preference. Registration itself (the opt-in flow) lives outside this
// module; this side only resolves.
package directory

import (
	"context"
	"errors"

	"github.com/xvolv/tenant/internal/domain/notification"
)

// ErrRecipientUnresolved means the room's owner has no registered recipient.
// Callers skip the notification for that room; it is not a failure.
var ErrRecipientUnresolved = errors.New("no registered recipient for room owner")

// RecipientHandle addresses a registered recipient on the messaging gateway.
type RecipientHandle struct {
	ChatID int64
}

// Directory resolves rooms to recipients. Implementations are keyed stores;
// there is no "first connected user" fallback.
type Directory interface {
	// ResolveRecipient maps a room, through its owner, to a recipient
	// handle. Returns ErrRecipientUnresolved when none is registered.
	ResolveRecipient(ctx context.Context, roomID string) (RecipientHandle, error)
	// LanguageOf returns the recipient's message language preference.
	LanguageOf(ctx context.Context, handle RecipientHandle) (notification.Language, error)
}
