package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"

	"github.com/xvolv/tenant/internal/app"
	"github.com/xvolv/tenant/internal/domain/calendar"
	"github.com/xvolv/tenant/internal/domain/directory"
	"github.com/xvolv/tenant/internal/domain/notification"
	"github.com/xvolv/tenant/internal/domain/rent"
	"github.com/xvolv/tenant/internal/infra/dedup"
)

// ---- fakes ----

type fakeRepo struct {
	rooms   []*rent.Room
	listErr error
	saved   []*rent.PaymentRecord
}

func (f *fakeRepo) ListRoomsWithTenanciesAndPayments(context.Context) ([]*rent.Room, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.rooms, nil
}

func (f *fakeRepo) GetRoom(_ context.Context, roomID string) (*rent.Room, error) {
	for _, r := range f.rooms {
		if r.ID == roomID {
			return r, nil
		}
	}
	return nil, fmt.Errorf("room %s not found", roomID)
}

func (f *fakeRepo) CreateRoom(context.Context, *rent.Room) error { return nil }
func (f *fakeRepo) AssignTenancy(context.Context, *rent.Tenancy) error {
	return nil
}
func (f *fakeRepo) EndTenancy(context.Context, string, calendar.EthiopianDate) error {
	return nil
}
func (f *fakeRepo) SetPayment(_ context.Context, rec *rent.PaymentRecord) error {
	f.saved = append(f.saved, rec)
	return nil
}

type fakeDirectory struct {
	handles   map[string]directory.RecipientHandle // roomID -> handle
	languages map[int64]notification.Language
}

func (f *fakeDirectory) ResolveRecipient(_ context.Context, roomID string) (directory.RecipientHandle, error) {
	h, ok := f.handles[roomID]
	if !ok {
		return directory.RecipientHandle{}, directory.ErrRecipientUnresolved
	}
	return h, nil
}

func (f *fakeDirectory) LanguageOf(_ context.Context, h directory.RecipientHandle) (notification.Language, error) {
	if lang, ok := f.languages[h.ChatID]; ok {
		return lang, nil
	}
	return notification.LangEnglish, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeGateway struct {
	sent    []sentMessage
	failFor map[int64]error
}

func (f *fakeGateway) SendMessage(_ context.Context, chatID int64, text string, _ *telebot.SendOptions) error {
	if err, ok := f.failFor[chatID]; ok {
		return err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type fixedClock struct{ today calendar.EthiopianDate }

func (c fixedClock) Now() time.Time { return c.today.Gregorian() }

// ---- fixtures ----

func date(t *testing.T, year, month, day int) calendar.EthiopianDate {
	t.Helper()
	d, err := calendar.New(year, month, day)
	require.NoError(t, err)
	return d
}

func room(id, name string, ten *rent.Tenancy, payments ...rent.PaymentRecord) *rent.Room {
	return &rent.Room{ID: id, Name: name, OwnerID: "owner-1", Tenancy: ten, Payments: payments}
}

func tenancy(t *testing.T, roomID string, moveInYear, moveInMonth, moveInDay int) *rent.Tenancy {
	t.Helper()
	moveIn := date(t, moveInYear, moveInMonth, moveInDay)
	return &rent.Tenancy{
		ID:         "ten-" + roomID,
		RoomID:     roomID,
		RenterID:   "renter-" + roomID,
		RenterName: "Tigist Haile",
		MoveIn:     moveIn,
		DueDay:     moveIn.Day,
	}
}

func paid(roomID string, year, month int) rent.PaymentRecord {
	return rent.PaymentRecord{RoomID: roomID, Year: year, Month: month, IsPaid: true}
}

type fixture struct {
	repo    *fakeRepo
	dir     *fakeDirectory
	gateway *fakeGateway
	svc     *app.DispatchService
}

func newFixture(t *testing.T, today calendar.EthiopianDate, rooms ...*rent.Room) *fixture {
	t.Helper()
	repo := &fakeRepo{rooms: rooms}
	dir := &fakeDirectory{
		handles:   map[string]directory.RecipientHandle{},
		languages: map[int64]notification.Language{},
	}
	for _, r := range rooms {
		dir.handles[r.ID] = directory.RecipientHandle{ChatID: 100}
	}
	gw := &fakeGateway{failFor: map[int64]error{}}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := app.NewDispatchService(repo, dir, gw, dedup.NewMemoryLedger(), fixedClock{today: today}, logger, app.DispatchConfig{
		RentAmount:      decimal.NewFromInt(5000),
		SendTimeout:     time.Second,
		DefaultLanguage: notification.LangEnglish,
	})
	return &fixture{repo: repo, dir: dir, gateway: gw, svc: svc}
}

// ---- scans ----

func TestRun_DueToday(t *testing.T) {
	today := date(t, 2016, 6, 15)
	ten := tenancy(t, "r1", 2016, 4, 15)
	f := newFixture(t, today, room("r1", "ROOM 1", ten, paid("r1", 2016, 4), paid("r1", 2016, 5)))

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 0, res.Failed)
	require.Len(t, res.Details, 1)
	assert.Equal(t, notification.KindDueToday, res.Details[0].Kind)
	require.Len(t, f.gateway.sent, 1)
	assert.Contains(t, f.gateway.sent[0].text, "RENT DUE TODAY")
}

func TestRun_DueSoonTwoDaysAhead(t *testing.T) {
	today := date(t, 2016, 6, 8)
	ten := tenancy(t, "r1", 2016, 4, 10)
	f := newFixture(t, today, room("r1", "ROOM 1", ten, paid("r1", 2016, 4), paid("r1", 2016, 5)))

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Details, 1)
	assert.Equal(t, notification.KindDueSoon, res.Details[0].Kind)
	assert.Equal(t, 2, res.Details[0].DayDistance)
	assert.Contains(t, f.gateway.sent[0].text, "(2 days)")
}

func TestRun_OverdueFromPreviousMonth(t *testing.T) {
	// Month 5 was never paid; today is month 6 day 20. The overdue distance
	// is the true elapsed count since month 5's due day, not a same-month
	// remainder.
	today := date(t, 2016, 6, 20)
	ten := tenancy(t, "r1", 2016, 4, 10)
	f := newFixture(t, today, room("r1", "ROOM 1", ten, paid("r1", 2016, 4)))

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Details, 1)
	assert.Equal(t, notification.KindOverdue, res.Details[0].Kind)
	assert.Equal(t, 40, res.Details[0].DayDistance)
	assert.Contains(t, f.gateway.sent[0].text, "Overdue by: 40 days")
}

func TestRun_RoomNeverOccupied_NothingSent(t *testing.T) {
	today := date(t, 2016, 6, 15)
	f := newFixture(t, today, room("r1", "ROOM 1", nil))

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &notification.DispatchResult{Details: []notification.DispatchDetail{}}, res)
	assert.Empty(t, f.gateway.sent)
}

func TestRun_PaidCurrentMonth_SuppressesDueKinds(t *testing.T) {
	today := date(t, 2016, 6, 20)
	ten := tenancy(t, "r1", 2016, 4, 10)
	f := newFixture(t, today, room("r1", "ROOM 1", ten,
		paid("r1", 2016, 4), paid("r1", 2016, 5), paid("r1", 2016, 6)))

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, res.Sent)
	assert.Empty(t, f.gateway.sent)
}

func TestRun_MoveInTomorrow(t *testing.T) {
	today := date(t, 2016, 6, 30)
	ten := tenancy(t, "r1", 2016, 7, 1)
	f := newFixture(t, today, room("r1", "ROOM 1", ten))

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Details, 1)
	assert.Equal(t, notification.KindMoveInTomorrow, res.Details[0].Kind)
	assert.Contains(t, f.gateway.sent[0].text, "MOVE-IN TOMORROW")
}

func TestRun_MoveInToday_FiresEvenWhenPaid(t *testing.T) {
	today := date(t, 2016, 7, 1)
	ten := tenancy(t, "r1", 2016, 7, 1)
	f := newFixture(t, today, room("r1", "ROOM 1", ten, paid("r1", 2016, 7)))

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Details, 1)
	assert.Equal(t, notification.KindMoveInToday, res.Details[0].Kind)
}

// ---- idempotency ----

func TestRun_SecondPassWithinPeriodDoesNotResend(t *testing.T) {
	today := date(t, 2016, 6, 8)
	ten := tenancy(t, "r1", 2016, 4, 10)
	f := newFixture(t, today, room("r1", "ROOM 1", ten, paid("r1", 2016, 4), paid("r1", 2016, 5)))

	first, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Sent)

	second, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Sent)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, f.gateway.sent, 1, "a notified tenancy must not be double-sent within the period")
}

func TestRun_FailedSendIsRetriedNextPass(t *testing.T) {
	today := date(t, 2016, 6, 8)
	ten := tenancy(t, "r1", 2016, 4, 10)
	f := newFixture(t, today, room("r1", "ROOM 1", ten, paid("r1", 2016, 4), paid("r1", 2016, 5)))
	f.gateway.failFor[100] = errors.New("telegram: 502")

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 0, res.Sent)

	delete(f.gateway.failFor, 100)
	res, err = f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent, "the released key allows the next tick to retry")
}

// ---- isolation ----

func TestRun_GatewayFailureDoesNotAbortScan(t *testing.T) {
	today := date(t, 2016, 6, 8)
	t1 := tenancy(t, "r1", 2016, 4, 10)
	t2 := tenancy(t, "r2", 2016, 4, 10)
	f := newFixture(t, today,
		room("r1", "ROOM 1", t1, paid("r1", 2016, 4), paid("r1", 2016, 5)),
		room("r2", "ROOM 2", t2, paid("r2", 2016, 4), paid("r2", 2016, 5)),
	)
	f.dir.handles["r1"] = directory.RecipientHandle{ChatID: 666}
	f.gateway.failFor[666] = errors.New("telegram: timeout")

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Sent, "the second room is still dispatched")
}

func TestRun_InvalidTenancyDates_SkipsThatTenancyOnly(t *testing.T) {
	today := date(t, 2016, 6, 8)
	bad := &rent.Tenancy{
		ID: "ten-bad", RoomID: "r1", RenterName: "X",
		MoveIn: calendar.EthiopianDate{Year: 2016, Month: 12, Day: 10}, // no such day
		DueDay: 10,
	}
	good := tenancy(t, "r2", 2016, 4, 10)
	f := newFixture(t, today,
		room("r1", "ROOM 1", bad),
		room("r2", "ROOM 2", good, paid("r2", 2016, 4), paid("r2", 2016, 5)),
	)

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
}

func TestRun_UnresolvedRecipient_SkippedNotFailed(t *testing.T) {
	today := date(t, 2016, 6, 8)
	ten := tenancy(t, "r1", 2016, 4, 10)
	f := newFixture(t, today, room("r1", "ROOM 1", ten, paid("r1", 2016, 4), paid("r1", 2016, 5)))
	delete(f.dir.handles, "r1")

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Failed)
}

func TestRun_PersistenceFailureAbortsRun(t *testing.T) {
	f := newFixture(t, date(t, 2016, 6, 8))
	f.repo.listErr = errors.New("pq: connection refused")

	res, err := f.svc.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, res)
}

// ---- language selection ----

func TestRun_AmharicPreference(t *testing.T) {
	today := date(t, 2016, 6, 8)
	ten := tenancy(t, "r1", 2016, 4, 10)
	f := newFixture(t, today, room("r1", "ROOM 1", ten, paid("r1", 2016, 4), paid("r1", 2016, 5)))
	f.dir.languages[100] = notification.LangAmharic

	_, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, f.gateway.sent, 1)
	assert.Contains(t, f.gateway.sent[0].text, "የቤት ክፍያ ማስታወቂያ")
}
