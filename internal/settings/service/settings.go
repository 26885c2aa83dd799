package service

import (
	"context"
	"errors"
	"time"

	settingserrors "slotwise/internal/settings/errors"
	"slotwise/internal/settings/repository"
	"slotwise/internal/settings/validator"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
)

type SettingsService interface {
	Get(ctx context.Context, agentID string) (*model.BookingSettings, error)
	Update(ctx context.Context, agentID string, updates *model.SettingsUpdate) (*model.BookingSettings, error)
}

type settingsService struct {
	repo      repository.SettingsRepository
	validator *validator.SettingsValidator
	cfg       *config.Config
}

func NewSettingsService(
	repo repository.SettingsRepository,
	validator *validator.SettingsValidator,
	cfg *config.Config,
) SettingsService {
	return &settingsService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *settingsService) Get(ctx context.Context, agentID string) (*model.BookingSettings, error) {
	if agentID == "" {
		return nil, apperrors.InvalidInput("Agent ID cannot be empty")
	}

	settings, err := s.repo.FindByAgent(ctx, agentID)
	if err != nil {
		if errors.Is(err, settingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking settings", agentID)
		}
		s.cfg.Log.Error("Failed to get booking settings", "agent_id", agentID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking settings", err)
	}

	return settings, nil
}

// Update merges the partial update over the stored settings (or the configured
// defaults for a first-time agent), validates the merged snapshot and saves it.
// The returned value is the full fresh snapshot, so concurrent edits reconcile
// by last-write-wins plus re-fetch.
func (s *settingsService) Update(ctx context.Context, agentID string, updates *model.SettingsUpdate) (*model.BookingSettings, error) {
	if agentID == "" {
		return nil, apperrors.InvalidInput("Agent ID cannot be empty")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Settings update validation failed", "agent_id", agentID, "error", err)
		return nil, apperrors.Validation("Settings validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	existing, err := s.repo.FindByAgent(ctx, agentID)
	if err != nil {
		if !errors.Is(err, settingserrors.ErrNotFound) {
			return nil, apperrors.Internal("Failed to check settings existence", err)
		}
		existing = s.defaults(agentID)
	}

	merged := s.merge(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Settings validation failed", "agent_id", agentID, "error", err)
		return nil, apperrors.Validation("Settings validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Upsert(ctx, merged); err != nil {
		s.cfg.Log.Error("Failed to save booking settings", "agent_id", agentID, "error", err)
		return nil, apperrors.Internal("Failed to save booking settings", err)
	}

	s.cfg.Log.Info("Booking settings updated successfully",
		"agent_id", agentID,
		"booking_type", merged.BookingType,
		"meeting_duration_min", merged.MeetingDurationMin,
	)
	return merged, nil
}

// defaults is the initial settings snapshot for an agent that never saved any:
// weekday rules 09:00-17:00, weekend off, configured service-wide fallbacks.
func (s *settingsService) defaults(agentID string) *model.BookingSettings {
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
		AgentID:            agentID,
		BookingType:        model.BookingTypeIndividual,
		BookingsPerSlot:    s.cfg.DefaultBookingsPerSlot,
		MeetingDurationMin: s.cfg.DefaultMeetingDurationMin,
		BufferMin:          s.cfg.DefaultBufferMin,
		TimeZone:           s.cfg.DefaultTimeZone,
		Locations:          []string{model.LocationInPerson},
		WeeklyRules:        rules,
	}
}

func (s *settingsService) merge(existing *model.BookingSettings, updates *model.SettingsUpdate) *model.BookingSettings {
	merged := *existing

	if updates.BookingType != "" {
		merged.BookingType = updates.BookingType
	}
	if updates.BookingsPerSlot != nil {
		merged.BookingsPerSlot = *updates.BookingsPerSlot
	}
	if updates.MeetingDurationMin != nil {
		merged.MeetingDurationMin = *updates.MeetingDurationMin
	}
	if updates.BufferMin != nil {
		merged.BufferMin = *updates.BufferMin
	}
	if updates.LunchStart != nil {
		merged.LunchStart = *updates.LunchStart
	}
	if updates.LunchEnd != nil {
		merged.LunchEnd = *updates.LunchEnd
	}
	if updates.TimeZone != "" {
		merged.TimeZone = updates.TimeZone
	}
	if updates.Locations != nil {
		merged.Locations = updates.Locations
	}
	if updates.WeeklyRules != nil {
		merged.WeeklyRules = updates.WeeklyRules
	}

	// Capacity is a team concept; individual agents always book one per slot.
	if merged.BookingType == model.BookingTypeIndividual {
		merged.BookingsPerSlot = 1
	}

	merged.ID = existing.ID
	merged.AgentID = existing.AgentID
	merged.CreatedAt = existing.CreatedAt
	return &merged
}
