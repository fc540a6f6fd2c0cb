// internal/app/dispatch_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"github.com/xvolv/tenant/internal/domain/calendar"
	"github.com/xvolv/tenant/internal/domain/directory"
	"github.com/xvolv/tenant/internal/domain/notification"
	"github.com/xvolv/tenant/internal/domain/rent"
	domainTelegram "github.com/xvolv/tenant/internal/domain/telegram"
)

// Dispatcher runs one notification pass. The scheduler and the on-demand
// HTTP trigger both go through this interface.
type Dispatcher interface {
	Run(ctx context.Context) (*notification.DispatchResult, error)
}

// DispatchConfig carries the fixed knobs of a dispatch pass.
type DispatchConfig struct {
	// RentAmount is the fixed monthly rent rendered into messages.
	RentAmount decimal.Decimal
	// SendTimeout bounds one gateway call; on expiry the send counts as
	// failed and the scan continues.
	SendTimeout time.Duration
	// DefaultLanguage is used when a recipient's preference cannot be read.
	DefaultLanguage notification.Language
}

// DispatchService scans all rooms with active tenancies, decides per
// tenancy whether a notification is owed today and dispatches it through
// the messaging gateway. It reads ledger state, never writes it.
type DispatchService struct {
	rooms    rent.Repository
	dir      directory.Directory
	gateway  domainTelegram.Client
	notified notification.NotifiedLedger
	clock    Clock
	logger   *logrus.Logger
	cfg      DispatchConfig
}

func NewDispatchService(
	rooms rent.Repository,
	dir directory.Directory,
	gateway domainTelegram.Client,
	notified notification.NotifiedLedger,
	clock Clock,
	logger *logrus.Logger,
	cfg DispatchConfig,
) *DispatchService {
	return &DispatchService{
		rooms:    rooms,
		dir:      dir,
		gateway:  gateway,
		notified: notified,
		clock:    clock,
		logger:   logger,
		cfg:      cfg,
	}
}

// Run executes one pass over all tenancies. Only a failure to load the room
// list aborts the run; every per-tenancy error is isolated, counted and
// logged, and the scan continues. The returned result is the sole
// observable outcome.
func (s *DispatchService) Run(ctx context.Context) (*notification.DispatchResult, error) {
	rooms, err := s.rooms.ListRoomsWithTenanciesAndPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing rooms for notification scan: %w", err)
	}

	today := calendar.FromTime(s.clock.Now())
	res := &notification.DispatchResult{Details: []notification.DispatchDetail{}}
	for _, room := range rooms {
		s.processRoom(ctx, room, today, res)
	}

	s.logger.WithFields(logrus.Fields{
		"rooms":   len(rooms),
		"sent":    res.Sent,
		"failed":  res.Failed,
		"skipped": res.Skipped,
		"today":   today.String(),
	}).Info("notification scan finished")
	return res, nil
}

func (s *DispatchService) processRoom(ctx context.Context, room *rent.Room, today calendar.EthiopianDate, res *notification.DispatchResult) {
	t := room.Tenancy
	if !t.Active() {
		return
	}
	if err := t.Validate(); err != nil {
		// A bad stored date skips this tenancy only, never the scan.
		s.logger.WithError(err).WithField("room", room.Name).Warn("skipping tenancy with invalid dates")
		return
	}

	moveInDiff := t.MoveIn.Ordinal() - today.Ordinal()
	paidThisMonth := rent.EvaluateCell(t, room.Payments, today.Year, today.Month, today) == rent.StatusPaid

	due, dist := rent.DueDate(t, today)
	if overdueDue, days, ok := rent.OverdueSince(t, room.Payments, today); ok {
		// True elapsed days since the earliest unpaid period's due date.
		due, dist = overdueDue, -days
	}

	dec := notification.Decide(t.ID, notification.PolicyInput{
		DayDistance:    dist,
		PaidThisMonth:  paidThisMonth,
		MoveInToday:    moveInDiff == 0,
		MoveInTomorrow: moveInDiff == 1,
	})
	if dec == nil {
		return
	}

	handle, err := s.dir.ResolveRecipient(ctx, room.ID)
	if errors.Is(err, directory.ErrRecipientUnresolved) {
		s.logger.WithField("room", room.Name).Debug("owner has no registered recipient, skipping")
		res.Skipped++
		return
	}
	if err != nil {
		s.logger.WithError(err).WithField("room", room.Name).Error("recipient lookup failed")
		res.Failed++
		res.Details = append(res.Details, notification.DispatchDetail{
			Room: room.Name, Tenant: t.RenterName, Kind: dec.Kind, Error: err.Error(),
		})
		return
	}

	lang, err := s.dir.LanguageOf(ctx, handle)
	if err != nil {
		s.logger.WithError(err).Warn("language lookup failed, using default")
		lang = s.cfg.DefaultLanguage
	}

	key := notification.Key{TenancyID: t.ID, Year: today.Year, Month: today.Month, Kind: dec.Kind}
	first, err := s.notified.MarkIfFirst(ctx, key)
	if err != nil {
		// Dedup store unavailable: prefer an extra send over a missed one.
		s.logger.WithError(err).WithField("key", key.String()).Warn("notified ledger unavailable, sending anyway")
		first = true
	}
	if !first {
		res.Skipped++
		return
	}

	msgDate := due
	if dec.Kind == notification.KindMoveInToday || dec.Kind == notification.KindMoveInTomorrow {
		msgDate = t.MoveIn
	}
	text := notification.Render(dec.Kind, lang, notification.MessagePayload{
		RoomName:   room.Name,
		TenantName: t.RenterName,
		Amount:     s.cfg.RentAmount,
		Date:       msgDate,
		Days:       dec.DayDistance,
	})

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	err = s.gateway.SendMessage(sendCtx, handle.ChatID, text, &telebot.SendOptions{
		ParseMode:             telebot.ModeMarkdown,
		DisableWebPagePreview: true,
	})
	cancel()
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"room": room.Name, "kind": dec.Kind}).Error("gateway send failed")
		res.Failed++
		res.Details = append(res.Details, notification.DispatchDetail{
			Room: room.Name, Tenant: t.RenterName, Kind: dec.Kind, DayDistance: dec.DayDistance, Error: err.Error(),
		})
		// Let the next tick retry.
		if rerr := s.notified.Release(ctx, key); rerr != nil {
			s.logger.WithError(rerr).WithField("key", key.String()).Warn("could not release notified key")
		}
		return
	}

	res.Sent++
	res.Details = append(res.Details, notification.DispatchDetail{
		Room: room.Name, Tenant: t.RenterName, Kind: dec.Kind, DayDistance: dec.DayDistance,
	})
}
