package validator

import (
	"io"
	"testing"
	"time"

	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

func testValidator() *SettingsValidator {
	return NewSettingsValidator(logger.New(logger.Config{
		Level:  logger.ERROR,
		Format: logger.TEXT,
		Output: io.Discard,
	}))
}

func validSettings() *model.BookingSettings {
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
		AgentID:            "agent-1",
		BookingType:        model.BookingTypeIndividual,
		BookingsPerSlot:    1,
		MeetingDurationMin: 30,
		BufferMin:          10,
		LunchStart:         "12:00",
		LunchEnd:           "13:00",
		TimeZone:           "America/New_York",
		Locations:          []string{model.LocationVideo},
		WeeklyRules:        rules,
	}
}

func TestValidateSettings(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name    string
		mutate  func(s *model.BookingSettings)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(s *model.BookingSettings) {},
		},
		{
			name: "no lunch break",
			mutate: func(s *model.BookingSettings) {
				s.LunchStart = ""
				s.LunchEnd = ""
			},
		},
		{
			name: "team with capacity",
			mutate: func(s *model.BookingSettings) {
				s.BookingType = model.BookingTypeTeam
				s.BookingsPerSlot = 5
			},
		},
		{
			name: "missing agent",
			mutate: func(s *model.BookingSettings) {
				s.AgentID = ""
			},
			wantErr: true,
		},
		{
			name: "unknown booking type",
			mutate: func(s *model.BookingSettings) {
				s.BookingType = "group"
			},
			wantErr: true,
		},
		{
			name: "individual with capacity above one",
			mutate: func(s *model.BookingSettings) {
				s.BookingsPerSlot = 3
			},
			wantErr: true,
		},
		{
			name: "duration too short",
			mutate: func(s *model.BookingSettings) {
				s.MeetingDurationMin = 2
			},
			wantErr: true,
		},
		{
			name: "negative buffer",
			mutate: func(s *model.BookingSettings) {
				s.BufferMin = -5
			},
			wantErr: true,
		},
		{
			name: "invalid timezone",
			mutate: func(s *model.BookingSettings) {
				s.TimeZone = "Mars/Olympus_Mons"
			},
			wantErr: true,
		},
		{
			name: "no locations",
			mutate: func(s *model.BookingSettings) {
				s.Locations = nil
			},
			wantErr: true,
		},
		{
			name: "unknown location",
			mutate: func(s *model.BookingSettings) {
				s.Locations = []string{"carrier_pigeon"}
			},
			wantErr: true,
		},
		{
			name: "six rules only",
			mutate: func(s *model.BookingSettings) {
				s.WeeklyRules = s.WeeklyRules[:6]
			},
			wantErr: true,
		},
		{
			name: "duplicate weekday",
			mutate: func(s *model.BookingSettings) {
				s.WeeklyRules[0].Day = "Monday"
				s.WeeklyRules[1].Day = "Monday"
			},
			wantErr: true,
		},
		{
			name: "available rule without window",
			mutate: func(s *model.BookingSettings) {
				s.WeeklyRules[1].StartTime = ""
				s.WeeklyRules[1].EndTime = ""
			},
			wantErr: true,
		},
		{
			name: "unavailable rule with window",
			mutate: func(s *model.BookingSettings) {
				s.WeeklyRules[0].StartTime = "09:00"
				s.WeeklyRules[0].EndTime = "17:00"
			},
			wantErr: true,
		},
		{
			name: "inverted rule window",
			mutate: func(s *model.BookingSettings) {
				s.WeeklyRules[1].StartTime = "17:00"
				s.WeeklyRules[1].EndTime = "09:00"
			},
			wantErr: true,
		},
		{
			name: "lunch start without end",
			mutate: func(s *model.BookingSettings) {
				s.LunchEnd = ""
			},
			wantErr: true,
		},
		{
			name: "inverted lunch window",
			mutate: func(s *model.BookingSettings) {
				s.LunchStart = "13:00"
				s.LunchEnd = "12:00"
			},
			wantErr: true,
		},
		{
			name: "malformed time",
			mutate: func(s *model.BookingSettings) {
				s.WeeklyRules[1].StartTime = "9am"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)
			err := v.Validate(s)
			if tt.wantErr && err == nil {
				t.Error("Validate returned nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate returned error: %v", err)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := testValidator()

	duration := 45
	if err := v.ValidateUpdate(&model.SettingsUpdate{MeetingDurationMin: &duration}); err != nil {
		t.Errorf("ValidateUpdate returned error: %v", err)
	}

	bad := 2
	if err := v.ValidateUpdate(&model.SettingsUpdate{MeetingDurationMin: &bad}); err == nil {
		t.Error("ValidateUpdate accepted a 2-minute duration")
	}

	if err := v.ValidateUpdate(&model.SettingsUpdate{TimeZone: "Nowhere/Void"}); err == nil {
		t.Error("ValidateUpdate accepted an invalid timezone")
	}
}
