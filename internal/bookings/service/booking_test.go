package service

import (
	"context"
	"io"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "slotwise/internal/bookings/errors"
	"slotwise/internal/bookings/repository"
	"slotwise/internal/bookings/validator"
	"slotwise/pkg/config"
	mongotx "slotwise/pkg/db/mongo"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
	"slotwise/pkg/sealer"
)

type mockBookingRepo struct {
	createFn       func(ctx context.Context, booking *model.Booking) error
	findByIDFn     func(ctx context.Context, id string) (*model.Booking, error)
	findByAgentFn  func(ctx context.Context, agentID string, limit int, offset int64) ([]*model.Booking, error)
	countByAgentFn func(ctx context.Context, agentID string) (int64, error)
	findBySlotFn   func(ctx context.Context, agentID, date, startTime string) ([]*model.Booking, error)
	findByDatesFn  func(ctx context.Context, agentID string, dates []string) ([]*model.Booking, error)
	updateStatusFn func(ctx context.Context, id, status string, cancelledAt time.Time) error
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	return m.createFn(ctx, booking)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockBookingRepo) FindByAgent(ctx context.Context, agentID string, limit int, offset int64) ([]*model.Booking, error) {
	return m.findByAgentFn(ctx, agentID, limit, offset)
}

func (m *mockBookingRepo) CountByAgent(ctx context.Context, agentID string) (int64, error) {
	return m.countByAgentFn(ctx, agentID)
}

func (m *mockBookingRepo) FindBySlot(ctx context.Context, agentID, date, startTime string) ([]*model.Booking, error) {
	return m.findBySlotFn(ctx, agentID, date, startTime)
}

func (m *mockBookingRepo) FindByDates(ctx context.Context, agentID string, dates []string) ([]*model.Booking, error) {
	return m.findByDatesFn(ctx, agentID, dates)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id, status string, cancelledAt time.Time) error {
	return m.updateStatusFn(ctx, id, status, cancelledAt)
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

var _ repository.BookingRepository = (*mockBookingRepo)(nil)

type mockSlotLockRepo struct {
	createFn func(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error)
	deleteFn func(ctx context.Context, lockID string) error

	created []string
	deleted []string
}

func (m *mockSlotLockRepo) Create(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
	m.created = append(m.created, lock.ID)
	if m.createFn != nil {
		return m.createFn(ctx, lock)
	}
	return lock, nil
}

func (m *mockSlotLockRepo) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, lockID)
	}
	return nil
}

type mockSettingsService struct {
	settings *model.BookingSettings
}

func (m *mockSettingsService) Get(ctx context.Context, agentID string) (*model.BookingSettings, error) {
	return m.settings, nil
}

func (m *mockSettingsService) Update(ctx context.Context, agentID string, updates *model.SettingsUpdate) (*model.BookingSettings, error) {
	return m.settings, nil
}

type mockExceptionService struct {
	exceptions []*model.DateException
}

func (m *mockExceptionService) List(ctx context.Context, agentID string) ([]*model.DateException, error) {
	return m.exceptions, nil
}

func (m *mockExceptionService) Replace(ctx context.Context, agentID string, entries []model.ExceptionUpsert) ([]*model.DateException, error) {
	return m.exceptions, nil
}

type capturePublisher struct {
	events []string
}

func (p *capturePublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) error {
	p.events = append(p.events, eventType)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Output: io.Discard})
}

func testConfig() *config.Config {
	return &config.Config{
		Log:         testLogger(),
		SlotLockTTL: 30 * time.Second,
	}
}

func testSettings(agentID string) *model.BookingSettings {
	rules := make([]model.WeeklyRule, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		rule := model.WeeklyRule{Day: d.String()}
		if d != time.Sunday && d != time.Saturday {
			rule.Available = true
			rule.StartTime = "09:00"
			rule.EndTime = "17:00"
		}
		rules = append(rules, rule)
	}
	return &model.BookingSettings{
		ID:                 "665f0a1b2c3d4e5f60718293",
		AgentID:            agentID,
		BookingType:        model.BookingTypeIndividual,
		BookingsPerSlot:    1,
		MeetingDurationMin: 30,
		BufferMin:          10,
		LunchStart:         "12:00",
		LunchEnd:           "13:00",
		TimeZone:           "UTC",
		Locations:          []string{model.LocationVideo, model.LocationPhone},
		WeeklyRules:        rules,
	}
}

// fixedNow is a Saturday; the Monday after it is 03-JUN-2024.
var fixedNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestBookingService(t *testing.T, repo *mockBookingRepo, locks *mockSlotLockRepo, settings *model.BookingSettings, publisher EventPublisher) BookingService {
	t.Helper()
	cfg := testConfig()
	svc := NewBookingService(
		repo,
		locks,
		&mockSettingsService{settings: settings},
		&mockExceptionService{},
		validator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	svc.(*bookingService).now = func() time.Time { return fixedNow }
	return svc
}

func validBooking(agentID string) *model.Booking {
	return &model.Booking{
		AgentID:      agentID,
		Date:         "03-JUN-2024",
		StartTime:    "09:00",
		EndTime:      "09:30",
		Location:     model.LocationVideo,
		CustomerName: "Dana Cohen",
	}
}

func TestCreateBooking(t *testing.T) {
	var created *model.Booking
	repo := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = "665f0a1b2c3d4e5f60718294"
			created = booking
			return nil
		},
		findBySlotFn: func(ctx context.Context, agentID, date, startTime string) ([]*model.Booking, error) {
			return nil, nil
		},
	}
	locks := &mockSlotLockRepo{}
	publisher := &capturePublisher{}
	svc := newTestBookingService(t, repo, locks, testSettings("agent-1"), publisher)

	booking := validBooking("agent-1")
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if created == nil {
		t.Fatal("booking was not persisted")
	}
	if created.Status != model.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", created.Status)
	}
	if booking.ManageToken == "" {
		t.Error("expected a manage token on the created booking")
	} else {
		agentID, bookingID, err := sealer.ParseManageToken(booking.ManageToken)
		if err != nil {
			t.Fatalf("manage token does not parse: %v", err)
		}
		if agentID != "agent-1" || bookingID != booking.ID {
			t.Errorf("token opens to (%s, %s), want (agent-1, %s)", agentID, bookingID, booking.ID)
		}
	}
	if len(publisher.events) != 1 || publisher.events[0] != EventBookingConfirmed {
		t.Errorf("published events = %v, want [%s]", publisher.events, EventBookingConfirmed)
	}
	if len(locks.created) != 1 {
		t.Fatalf("expected one slot lock, got %v", locks.created)
	}
	wantLock := "slot_lock_agent-1_03-JUN-2024_09:00"
	if locks.created[0] != wantLock {
		t.Errorf("lock ID = %q, want %q", locks.created[0], wantLock)
	}
	if len(locks.deleted) != 1 || locks.deleted[0] != wantLock {
		t.Errorf("lock was not released: deleted = %v", locks.deleted)
	}
}

func TestCreateBookingInfersCustomerTimezone(t *testing.T) {
	repo := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = "665f0a1b2c3d4e5f60718294"
			return nil
		},
		findBySlotFn: func(ctx context.Context, agentID, date, startTime string) ([]*model.Booking, error) {
			return nil, nil
		},
	}
	svc := newTestBookingService(t, repo, &mockSlotLockRepo{}, testSettings("agent-1"), &capturePublisher{})

	booking := validBooking("agent-1")
	booking.CustomerPhone = "+972541234567"
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if booking.CustomerTimeZone != "Asia/Jerusalem" {
		t.Errorf("CustomerTimeZone = %q, want Asia/Jerusalem", booking.CustomerTimeZone)
	}
}

func TestCreateBookingCapacityExceeded(t *testing.T) {
	repo := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *model.Booking) error {
			t.Fatal("booking must not be created when the slot is full")
			return nil
		},
		findBySlotFn: func(ctx context.Context, agentID, date, startTime string) ([]*model.Booking, error) {
			return []*model.Booking{
				{Status: model.StatusConfirmed},
				{Status: model.StatusConfirmed},
				{Status: model.StatusConfirmed},
			}, nil
		},
	}
	locks := &mockSlotLockRepo{}
	publisher := &capturePublisher{}

	settings := testSettings("agent-1")
	settings.BookingType = model.BookingTypeTeam
	settings.BookingsPerSlot = 3
	svc := newTestBookingService(t, repo, locks, settings, publisher)

	err := svc.Create(context.Background(), validBooking("agent-1"))
	if err == nil {
		t.Fatal("Create succeeded on a full slot")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeCapacityExceeded {
		t.Errorf("error = %v, want code %s", err, apperrors.CodeCapacityExceeded)
	}
	if len(publisher.events) != 0 {
		t.Errorf("no event should be published on failure, got %v", publisher.events)
	}
	if len(locks.deleted) != 1 {
		t.Errorf("lock must be released on failure, deleted = %v", locks.deleted)
	}
}

func TestCreateBookingCancelledDoNotCount(t *testing.T) {
	repo := &mockBookingRepo{
		createFn: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = "665f0a1b2c3d4e5f60718294"
			return nil
		},
		findBySlotFn: func(ctx context.Context, agentID, date, startTime string) ([]*model.Booking, error) {
			return []*model.Booking{{Status: model.StatusCancelled}}, nil
		},
	}
	svc := newTestBookingService(t, repo, &mockSlotLockRepo{}, testSettings("agent-1"), &capturePublisher{})

	if err := svc.Create(context.Background(), validBooking("agent-1")); err != nil {
		t.Fatalf("a cancelled booking should free its slot, got error: %v", err)
	}
}

func TestCreateBookingRejectsUnknownSlot(t *testing.T) {
	repo := &mockBookingRepo{
		findBySlotFn: func(ctx context.Context, agentID, date, startTime string) ([]*model.Booking, error) {
			return nil, nil
		},
	}
	svc := newTestBookingService(t, repo, &mockSlotLockRepo{}, testSettings("agent-1"), &capturePublisher{})

	tests := []struct {
		name   string
		mutate func(b *model.Booking)
	}{
		{
			name: "start not on slot grid",
			mutate: func(b *model.Booking) {
				b.StartTime = "09:10"
				b.EndTime = "09:40"
			},
		},
		{
			name: "wrong duration",
			mutate: func(b *model.Booking) {
				b.EndTime = "10:00"
			},
		},
		{
			name: "inside lunch break",
			mutate: func(b *model.Booking) {
				b.StartTime = "12:20"
				b.EndTime = "12:50"
			},
		},
		{
			name: "closed weekday",
			mutate: func(b *model.Booking) {
				b.Date = "02-JUN-2024" // Sunday
			},
		},
		{
			name: "past date",
			mutate: func(b *model.Booking) {
				b.Date = "27-MAY-2024"
			},
		},
		{
			name: "location not offered",
			mutate: func(b *model.Booking) {
				b.Location = model.LocationInPerson
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking("agent-1")
			tt.mutate(booking)
			err := svc.Create(context.Background(), booking)
			if err == nil {
				t.Fatal("Create accepted an unbookable slot")
			}
			appErr := apperrors.AsAppError(err)
			if appErr == nil || appErr.Code != apperrors.CodeValidation {
				t.Errorf("error = %v, want code %s", err, apperrors.CodeValidation)
			}
		})
	}
}

func TestCreateBookingSlotLocked(t *testing.T) {
	repo := &mockBookingRepo{
		findBySlotFn: func(ctx context.Context, agentID, date, startTime string) ([]*model.Booking, error) {
			return nil, nil
		},
	}
	locks := &mockSlotLockRepo{
		createFn: func(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		},
	}
	svc := newTestBookingService(t, repo, locks, testSettings("agent-1"), &capturePublisher{})

	err := svc.Create(context.Background(), validBooking("agent-1"))
	if err == nil {
		t.Fatal("Create succeeded while the slot lock was held")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("error = %v, want code %s", err, apperrors.CodeConflict)
	}
}

func TestCancelBooking(t *testing.T) {
	stored := &model.Booking{
		ID:           "665f0a1b2c3d4e5f60718294",
		AgentID:      "agent-1",
		Date:         "03-JUN-2024",
		StartTime:    "09:00",
		EndTime:      "09:30",
		Status:       model.StatusConfirmed,
		Location:     model.LocationVideo,
		CustomerName: "Dana Cohen",
	}

	var updatedStatus string
	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			copy := *stored
			return &copy, nil
		},
		updateStatusFn: func(ctx context.Context, id, status string, cancelledAt time.Time) error {
			updatedStatus = status
			return nil
		},
	}
	publisher := &capturePublisher{}
	svc := newTestBookingService(t, repo, &mockSlotLockRepo{}, testSettings("agent-1"), publisher)

	booking, err := svc.Cancel(context.Background(), stored.ID, "")
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if updatedStatus != model.StatusCancelled {
		t.Errorf("persisted status = %q, want cancelled", updatedStatus)
	}
	if booking.Status != model.StatusCancelled {
		t.Errorf("returned status = %q, want cancelled", booking.Status)
	}
	if booking.CancelledAt.IsZero() {
		t.Error("CancelledAt should be set")
	}
	if len(publisher.events) != 1 || publisher.events[0] != EventBookingCancelled {
		t.Errorf("published events = %v, want [%s]", publisher.events, EventBookingCancelled)
	}
}

func TestCancelBookingStateMachine(t *testing.T) {
	tests := []struct {
		name    string
		booking model.Booking
	}{
		{
			name: "already cancelled",
			booking: model.Booking{
				ID:        "665f0a1b2c3d4e5f60718294",
				AgentID:   "agent-1",
				Date:      "03-JUN-2024",
				StartTime: "09:00",
				EndTime:   "09:30",
				Status:    model.StatusCancelled,
			},
		},
		{
			name: "completed",
			booking: model.Booking{
				ID:        "665f0a1b2c3d4e5f60718294",
				AgentID:   "agent-1",
				Date:      "27-MAY-2024", // before fixedNow
				StartTime: "09:00",
				EndTime:   "09:30",
				Status:    model.StatusConfirmed,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
					copy := tt.booking
					return &copy, nil
				},
				updateStatusFn: func(ctx context.Context, id, status string, cancelledAt time.Time) error {
					t.Fatal("UpdateStatus must not be called for terminal states")
					return nil
				},
			}
			svc := newTestBookingService(t, repo, &mockSlotLockRepo{}, testSettings("agent-1"), &capturePublisher{})

			_, err := svc.Cancel(context.Background(), tt.booking.ID, "")
			if err == nil {
				t.Fatal("Cancel succeeded on a terminal booking")
			}
			appErr := apperrors.AsAppError(err)
			if appErr == nil || appErr.Code != apperrors.CodeConflict {
				t.Errorf("error = %v, want code %s", err, apperrors.CodeConflict)
			}
		})
	}
}

func TestCancelBookingNotFound(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, bookingserrors.ErrNotFound
		},
	}
	svc := newTestBookingService(t, repo, &mockSlotLockRepo{}, testSettings("agent-1"), &capturePublisher{})

	_, err := svc.Cancel(context.Background(), "665f0a1b2c3d4e5f60718294", "")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("error = %v, want code %s", err, apperrors.CodeNotFound)
	}
}

func TestCancelBookingManageToken(t *testing.T) {
	stored := &model.Booking{
		ID:        "665f0a1b2c3d4e5f60718294",
		AgentID:   "agent-1",
		Date:      "03-JUN-2024",
		StartTime: "09:00",
		EndTime:   "09:30",
		Status:    model.StatusConfirmed,
	}
	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			copy := *stored
			return &copy, nil
		},
		updateStatusFn: func(ctx context.Context, id, status string, cancelledAt time.Time) error {
			return nil
		},
	}
	svc := newTestBookingService(t, repo, &mockSlotLockRepo{}, testSettings("agent-1"), &capturePublisher{})

	token, err := sealer.CreateManageToken(stored.AgentID, stored.ID)
	if err != nil {
		t.Fatalf("CreateManageToken returned error: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), stored.ID, token); err != nil {
		t.Fatalf("Cancel with a valid token returned error: %v", err)
	}

	wrong, err := sealer.CreateManageToken("agent-2", stored.ID)
	if err != nil {
		t.Fatalf("CreateManageToken returned error: %v", err)
	}
	_, err = svc.Cancel(context.Background(), stored.ID, wrong)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("error = %v, want code %s", err, apperrors.CodeInvalidInput)
	}
}

func TestCapacitySemantics(t *testing.T) {
	individual := testSettings("agent-1")
	if got := SlotCapacity(individual); got != 1 {
		t.Errorf("individual capacity = %d, want 1", got)
	}

	team := testSettings("agent-1")
	team.BookingType = model.BookingTypeTeam
	team.BookingsPerSlot = 5
	if got := SlotCapacity(team); got != 5 {
		t.Errorf("team capacity = %d, want 5", got)
	}

	mixed := []*model.Booking{
		{Status: model.StatusConfirmed},
		{Status: model.StatusCancelled},
		{Status: model.StatusConfirmed},
	}
	if got := CountConfirmed(mixed); got != 2 {
		t.Errorf("CountConfirmed = %d, want 2", got)
	}

	if err := CheckCapacity(mixed, team); err != nil {
		t.Errorf("CheckCapacity under capacity returned error: %v", err)
	}
	if err := CheckCapacity(mixed, individual); err == nil {
		t.Error("CheckCapacity at individual capacity returned nil")
	}
}
