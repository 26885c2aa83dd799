package service

import (
	"context"
	"time"

	"slotwise/internal/availability"
	bookingrepo "slotwise/internal/bookings/repository"
	bookingsvc "slotwise/internal/bookings/service"
	exceptionservice "slotwise/internal/exceptions/service"
	settingsservice "slotwise/internal/settings/service"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
	"slotwise/pkg/timefmt"
)

// maxRangeDays caps a single availability query.
const maxRangeDays = 92

// SlotView is one open slot in the availability read model. Times are
// business-local; the viewer_* fields carry the same instant rendered in the
// requested viewer timezone.
type SlotView struct {
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	StartDisplay      string `json:"start_display"`
	Capacity          int    `json:"capacity"`
	RemainingCapacity int    `json:"remaining_capacity"`
	ViewerDate        string `json:"viewer_date,omitempty"`
	ViewerStartTime   string `json:"viewer_start_time,omitempty"`
	ViewerEndTime     string `json:"viewer_end_time,omitempty"`
}

// DayView is the availability of one calendar date.
type DayView struct {
	Date      string     `json:"date"`
	Weekday   string     `json:"weekday"`
	Available bool       `json:"available"`
	IsPast    bool       `json:"is_past"`
	IsCustom  bool       `json:"is_custom"`
	StartTime string     `json:"start_time,omitempty"`
	EndTime   string     `json:"end_time,omitempty"`
	Slots     []SlotView `json:"slots"`
}

// Availability is the full read model the booking UI consumes.
type Availability struct {
	AgentID        string    `json:"agent_id"`
	TimeZone       string    `json:"timezone"`
	ViewerTimeZone string    `json:"viewer_timezone,omitempty"`
	Days           []DayView `json:"days"`
}

type AvailabilityService interface {
	Range(ctx context.Context, agentID string, from, to string, viewerTz string) (*Availability, error)
}

type availabilityService struct {
	settings   settingsservice.SettingsService
	exceptions exceptionservice.ExceptionService
	bookings   bookingrepo.BookingRepository
	cfg        *config.Config

	now func() time.Time
}

func NewAvailabilityService(
	settings settingsservice.SettingsService,
	exceptions exceptionservice.ExceptionService,
	bookings bookingrepo.BookingRepository,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		settings:   settings,
		exceptions: exceptions,
		bookings:   bookings,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Range materializes the agent's schedule over [from, to] and returns, per
// day, the open slots with their remaining capacity. Slots with no remaining
// capacity are omitted. When viewerTz is set each slot additionally carries
// its viewer-local rendering.
func (s *availabilityService) Range(ctx context.Context, agentID string, from, to string, viewerTz string) (*Availability, error) {
	if agentID == "" {
		return nil, apperrors.InvalidInput("Agent ID cannot be empty")
	}

	rangeStart, err := timefmt.ParseDate(from)
	if err != nil {
		return nil, apperrors.Validation("Invalid 'from' date", map[string]any{"error": err.Error()})
	}
	rangeEnd, err := timefmt.ParseDate(to)
	if err != nil {
		return nil, apperrors.Validation("Invalid 'to' date", map[string]any{"error": err.Error()})
	}
	if rangeEnd.Before(rangeStart) {
		return nil, apperrors.InvalidInput("'to' date must not precede 'from' date")
	}
	if timefmt.DaysBetween(rangeStart, rangeEnd) >= maxRangeDays {
		return nil, apperrors.InvalidInput("Requested range is too large")
	}

	var viewerLoc *time.Location
	if viewerTz != "" {
		viewerLoc, err = timefmt.LoadZone(viewerTz)
		if err != nil {
			return nil, apperrors.Validation("Invalid viewer timezone", map[string]any{"error": err.Error()})
		}
	}

	agentSettings, err := s.settings.Get(ctx, agentID)
	if err != nil {
		return nil, err
	}
	businessLoc, err := timefmt.LoadZone(agentSettings.TimeZone)
	if err != nil {
		return nil, apperrors.Internal("Invalid business timezone", err)
	}

	exceptions, err := s.exceptions.List(ctx, agentID)
	if err != nil {
		return nil, err
	}

	rules, err := availability.ParseRules(agentSettings)
	if err != nil {
		return nil, apperrors.Internal("Stored weekly rules are malformed", err)
	}
	overrides, err := availability.ParseOverrides(exceptions)
	if err != nil {
		return nil, apperrors.Internal("Stored exceptions are malformed", err)
	}

	today := timefmt.DateOf(s.now().In(businessLoc))
	days := availability.Materialize(rangeStart, rangeEnd, rules, overrides, today)

	confirmed, err := s.confirmedBySlot(ctx, agentID, days)
	if err != nil {
		return nil, err
	}

	lunch := lunchWindow(agentSettings)
	capacity := bookingsvc.SlotCapacity(agentSettings)

	result := &Availability{
		AgentID:        agentID,
		TimeZone:       agentSettings.TimeZone,
		ViewerTimeZone: viewerTz,
		Days:           make([]DayView, 0, len(days)),
	}

	for _, day := range days {
		view := DayView{
			Date:      day.Date.String(),
			Weekday:   day.Date.Weekday().String(),
			Available: day.Available,
			IsPast:    day.IsPast,
			IsCustom:  day.IsCustom,
			Slots:     []SlotView{},
		}
		if day.Available && !day.Window.IsZero() {
			view.StartTime = day.Window.Start.String()
			view.EndTime = day.Window.End.String()
		}

		for _, slot := range availability.SlotsForDay(day, agentSettings.MeetingDurationMin, agentSettings.BufferMin, lunch) {
			taken := confirmed[slotKey{date: day.Date.String(), start: slot.Start.String()}]
			remaining := capacity - taken
			if remaining <= 0 {
				continue
			}

			sv := SlotView{
				StartTime:         slot.Start.String(),
				EndTime:           slot.End.String(),
				StartDisplay:      slot.Start.Display(),
				Capacity:          capacity,
				RemainingCapacity: remaining,
			}
			if viewerLoc != nil {
				startInstant := slot.Date.At(slot.Start, businessLoc).In(viewerLoc)
				endInstant := slot.Date.At(slot.End, businessLoc).In(viewerLoc)
				sv.ViewerDate = timefmt.DateOf(startInstant).String()
				sv.ViewerStartTime = timefmt.TimeOfDayOf(startInstant).String()
				sv.ViewerEndTime = timefmt.TimeOfDayOf(endInstant).String()
			}
			view.Slots = append(view.Slots, sv)
		}

		result.Days = append(result.Days, view)
	}
	return result, nil
}

type slotKey struct {
	date  string
	start string
}

// confirmedBySlot counts confirmed bookings per (date, start) across the
// materialized range with one query. Cancelled bookings never count.
func (s *availabilityService) confirmedBySlot(ctx context.Context, agentID string, days []model.EffectiveDay) (map[slotKey]int, error) {
	dates := make([]string, 0, len(days))
	for _, d := range days {
		if d.Bookable() {
			dates = append(dates, d.Date.String())
		}
	}
	counts := make(map[slotKey]int)
	if len(dates) == 0 {
		return counts, nil
	}

	bookings, err := s.bookings.FindByDates(ctx, agentID, dates)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability", "agent_id", agentID, "error", err)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}
	for _, b := range bookings {
		if b.Status == model.StatusCancelled {
			continue
		}
		counts[slotKey{date: b.Date, start: b.StartTime}]++
	}
	return counts, nil
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
