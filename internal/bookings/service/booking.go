package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"slotwise/internal/availability"
	bookingserrors "slotwise/internal/bookings/errors"
	"slotwise/internal/bookings/repository"
	"slotwise/internal/bookings/validator"
	exceptionservice "slotwise/internal/exceptions/service"
	settingsservice "slotwise/internal/settings/service"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/locale"
	"slotwise/pkg/model"
	"slotwise/pkg/sanitizer"
	"slotwise/pkg/sealer"
	"slotwise/pkg/timefmt"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByAgent(ctx context.Context, agentID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string, manageToken string) (*model.Booking, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	lockRepo   repository.SlotLockRepository
	settings   settingsservice.SettingsService
	exceptions exceptionservice.ExceptionService
	validator  *validator.BookingValidator
	publisher  EventPublisher
	cfg        *config.Config

	// test seam; defaults to time.Now
	now func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	settings settingsservice.SettingsService,
	exceptions exceptionservice.ExceptionService,
	validator *validator.BookingValidator,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		lockRepo:   lockRepo,
		settings:   settings,
		exceptions: exceptions,
		validator:  validator,
		publisher:  publisher,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Create places a confirmed booking into an open slot. The requested slot must
// be one the agent's schedule actually generates for that date, and the
// capacity check is re-run inside a transaction while an advisory lock on the
// (agent, date, start) key is held, so two concurrent requests can never both
// pass it.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.sanitize(booking)
	s.applyDefaults(booking)
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	agentSettings, err := s.settings.Get(ctx, booking.AgentID)
	if err != nil {
		return err
	}

	if err := s.verifySlot(ctx, booking, agentSettings); err != nil {
		return err
	}

	lockID, err := s.acquireSlotLock(ctx, booking)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindBySlot(sessCtx, booking.AgentID, booking.Date, booking.StartTime)
		if err != nil {
			return apperrors.Internal("Failed to check slot capacity", err)
		}
		if err := CheckCapacity(existing, agentSettings); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"agent_id", booking.AgentID,
			"date", booking.Date,
			"start_time", booking.StartTime,
			"error", err,
		)
		return err
	}

	if err := s.publisher.Publish(ctx, EventBookingConfirmed, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event", EventBookingConfirmed,
			"booking_id", booking.ID,
			"error", err,
		)
	}

	// Issued after the event publish so the token never leaves the API
	// response.
	token, err := sealer.CreateManageToken(booking.AgentID, booking.ID)
	if err != nil {
		s.cfg.Log.Warn("Failed to issue manage token", "booking_id", booking.ID, "error", err)
	} else {
		booking.ManageToken = token
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"agent_id", booking.AgentID,
		"date", booking.Date,
		"start_time", booking.StartTime,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) ListByAgent(ctx context.Context, agentID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if agentID == "" {
		return nil, 0, apperrors.InvalidInput("Agent ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByAgent(ctx, agentID)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "agent_id", agentID, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByAgent(ctx, agentID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings", "agent_id", agentID, "error", err)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return bookings, count, nil
}

// Cancel performs the confirmed → cancelled transition. Cancelled bookings
// stay cancelled and completed bookings (end instant in the past) cannot be
// cancelled. A non-empty manageToken must open to this booking's identifiers.
func (s *bookingService) Cancel(ctx context.Context, id string, manageToken string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if manageToken != "" {
		agentID, bookingID, err := sealer.ParseManageToken(manageToken)
		if err != nil || agentID != booking.AgentID || bookingID != booking.ID {
			return nil, apperrors.InvalidInput("Invalid manage token")
		}
	}

	agentSettings, err := s.settings.Get(ctx, booking.AgentID)
	if err != nil {
		return nil, err
	}
	loc, err := timefmt.LoadZone(agentSettings.TimeZone)
	if err != nil {
		return nil, apperrors.Internal("Invalid business timezone", err)
	}

	now := s.now().In(loc)
	if !booking.CanCancel(now, loc) {
		switch booking.EffectiveStatus(now, loc) {
		case model.StatusCancelled:
			return nil, apperrors.Conflict("Booking is already cancelled")
		default:
			return nil, apperrors.Conflict("Completed bookings cannot be cancelled")
		}
	}

	cancelledAt := now.UTC().Truncate(time.Millisecond)
	if err := s.repo.UpdateStatus(ctx, id, model.StatusCancelled, cancelledAt); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	booking.Status = model.StatusCancelled
	booking.CancelledAt = cancelledAt

	if err := s.publisher.Publish(ctx, EventBookingCancelled, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event", EventBookingCancelled,
			"booking_id", booking.ID,
			"error", err,
		)
	}

	s.cfg.Log.Info("Booking cancelled successfully", "id", id)
	return booking, nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.StatusConfirmed
	}
	if b.CustomerTimeZone == "" && b.CustomerPhone != "" {
		b.CustomerTimeZone = locale.InferTimezoneFromPhone(b.CustomerPhone)
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.CustomerName = sanitizer.NormalizeName(b.CustomerName)
	b.CustomerPhone = sanitizer.TrimAndNormalize(b.CustomerPhone)
}

// verifySlot checks that the requested interval is one of the slots the
// agent's effective schedule generates for that date: right duration, right
// alignment, day open, date not in the past, offered location.
func (s *bookingService) verifySlot(ctx context.Context, booking *model.Booking, agentSettings *model.BookingSettings) error {
	if !locationOffered(agentSettings, booking.Location) {
		return apperrors.Validation("Location is not offered by this agent", map[string]any{
			"location": booking.Location,
		})
	}

	date, err := timefmt.ParseDate(booking.Date)
	if err != nil {
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	start, err := timefmt.ParseTimeOfDay(booking.StartTime)
	if err != nil {
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	end, err := timefmt.ParseTimeOfDay(booking.EndTime)
	if err != nil {
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	loc, err := timefmt.LoadZone(agentSettings.TimeZone)
	if err != nil {
		return apperrors.Internal("Invalid business timezone", err)
	}
	today := timefmt.DateOf(s.now().In(loc))

	day, err := s.effectiveDay(ctx, booking.AgentID, agentSettings, date, today)
	if err != nil {
		return err
	}

	lunch := lunchWindow(agentSettings)
	for _, slot := range availability.SlotsForDay(day, agentSettings.MeetingDurationMin, agentSettings.BufferMin, lunch) {
		if slot.Start == start && slot.End == end {
			return nil
		}
	}

	return apperrors.Validation("Requested slot is not bookable", map[string]any{
		"date":       booking.Date,
		"start_time": booking.StartTime,
	})
}

func (s *bookingService) effectiveDay(ctx context.Context, agentID string, agentSettings *model.BookingSettings, date, today timefmt.Date) (model.EffectiveDay, error) {
	exceptions, err := s.exceptions.List(ctx, agentID)
	if err != nil {
		return model.EffectiveDay{}, err
	}

	rules, err := availability.ParseRules(agentSettings)
	if err != nil {
		return model.EffectiveDay{}, apperrors.Internal("Stored weekly rules are malformed", err)
	}
	overrides, err := availability.ParseOverrides(exceptions)
	if err != nil {
		return model.EffectiveDay{}, apperrors.Internal("Stored exceptions are malformed", err)
	}

	days := availability.Materialize(date, date, rules, overrides, today)
	if len(days) != 1 {
		return model.EffectiveDay{}, apperrors.Internal("Failed to materialize booking date", nil)
	}
	return days[0], nil
}

func (s *bookingService) acquireSlotLock(ctx context.Context, booking *model.Booking) (string, error) {
	lockID := fmt.Sprintf("slot_lock_%s_%s_%s", booking.AgentID, booking.Date, booking.StartTime)

	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: s.now().Add(s.cfg.SlotLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}
	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func locationOffered(settings *model.BookingSettings, location string) bool {
	for _, l := range settings.Locations {
		if l == location {
			return true
		}
	}
	return false
}

func lunchWindow(settings *model.BookingSettings) timefmt.TimeWindow {
	if settings.LunchStart == "" || settings.LunchEnd == "" {
		return timefmt.TimeWindow{}
	}
	w, err := timefmt.NewWindow(settings.LunchStart, settings.LunchEnd)
	if err != nil {
		return timefmt.TimeWindow{}
	}
	return w
}
