// internal/app/payment_service.go
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"github.com/xvolv/tenant/internal/domain/calendar"
	"github.com/xvolv/tenant/internal/domain/directory"
	"github.com/xvolv/tenant/internal/domain/notification"
	"github.com/xvolv/tenant/internal/domain/rent"
	domainTelegram "github.com/xvolv/tenant/internal/domain/telegram"
)

// PaymentService records landlord payment toggles and sends the synchronous
// paid confirmation. Confirmations deliberately bypass the recurring scan:
// they fire once, at toggle time.
type PaymentService struct {
	rooms   rent.Repository
	dir     directory.Directory
	gateway domainTelegram.Client
	clock   Clock
	logger  *logrus.Logger
	cfg     DispatchConfig
}

func NewPaymentService(
	rooms rent.Repository,
	dir directory.Directory,
	gateway domainTelegram.Client,
	clock Clock,
	logger *logrus.Logger,
	cfg DispatchConfig,
) *PaymentService {
	return &PaymentService{rooms: rooms, dir: dir, gateway: gateway, clock: clock, logger: logger, cfg: cfg}
}

// RecordPayment upserts the payment record for (roomID, year, month). When
// the cell is toggled to paid, a confirmation message is sent best-effort;
// a gateway failure does not undo the recorded payment.
func (s *PaymentService) RecordPayment(ctx context.Context, roomID string, year, month int, isPaid bool) (*rent.PaymentRecord, error) {
	if _, err := calendar.New(year, month, 1); err != nil {
		return nil, fmt.Errorf("invalid billing period: %w", err)
	}

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("loading room %s: %w", roomID, err)
	}

	rec := &rent.PaymentRecord{RoomID: roomID, Year: year, Month: month, IsPaid: isPaid}
	if room.Tenancy != nil {
		rec.RenterID = room.Tenancy.RenterID
	}
	if err := s.rooms.SetPayment(ctx, rec); err != nil {
		return nil, fmt.Errorf("recording payment for room %s: %w", roomID, err)
	}

	if isPaid {
		s.sendPaidConfirmation(ctx, room, rec)
	}
	return rec, nil
}

func (s *PaymentService) sendPaidConfirmation(ctx context.Context, room *rent.Room, rec *rent.PaymentRecord) {
	handle, err := s.dir.ResolveRecipient(ctx, room.ID)
	if errors.Is(err, directory.ErrRecipientUnresolved) {
		s.logger.WithField("room", room.Name).Debug("no recipient registered, paid confirmation not sent")
		return
	}
	if err != nil {
		s.logger.WithError(err).WithField("room", room.Name).Warn("recipient lookup failed for paid confirmation")
		return
	}

	lang, err := s.dir.LanguageOf(ctx, handle)
	if err != nil {
		lang = s.cfg.DefaultLanguage
	}

	tenantName := ""
	if room.Tenancy != nil {
		tenantName = room.Tenancy.RenterName
	}
	text := notification.Render(notification.KindPaid, lang, notification.MessagePayload{
		RoomName:   room.Name,
		TenantName: tenantName,
		Amount:     s.cfg.RentAmount,
		Date:       calendar.FromTime(s.clock.Now()),
	})

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()
	err = s.gateway.SendMessage(sendCtx, handle.ChatID, text, &telebot.SendOptions{
		ParseMode:             telebot.ModeMarkdown,
		DisableWebPagePreview: true,
	})
	if err != nil {
		s.logger.WithError(err).WithField("room", room.Name).Warn("paid confirmation send failed")
		return
	}
	s.logger.WithField("room", room.Name).Info("paid confirmation sent")
}
