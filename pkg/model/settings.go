package model

import "time"

const (
	BookingTypeIndividual = "individual"
	BookingTypeTeam       = "team"
)

const (
	LocationInPerson = "in_person"
	LocationPhone    = "phone"
	LocationVideo    = "video"
)

// WeeklyRule is the recurring availability definition for one weekday. A rule
// with Available=false carries no window. One rule per weekday, no duplicates.
type WeeklyRule struct {
	Day       string `json:"day" bson:"day" validate:"required,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	Available bool   `json:"available" bson:"available"`
	StartTime string `json:"start_time,omitempty" bson:"start_time,omitempty" validate:"omitempty,time_of_day"`
	EndTime   string `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"omitempty,time_of_day"`
}

// BookingSettings is the authoritative scheduling configuration for one agent:
// the seven weekly rules plus slot sizing and capacity semantics. Times are
// stored in the HH:MM wire encoding and parsed only at the timefmt boundary.
type BookingSettings struct {
	ID                 string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AgentID            string       `json:"agent_id" bson:"agent_id" validate:"required"`
	BookingType        string       `json:"booking_type" bson:"booking_type" validate:"required,oneof=individual team"`
	BookingsPerSlot    int          `json:"bookings_per_slot" bson:"bookings_per_slot" validate:"required,min=1,max=200"`
	MeetingDurationMin int          `json:"meeting_duration_min" bson:"meeting_duration_min" validate:"required,min=5,max=480"`
	BufferMin          int          `json:"buffer_min" bson:"buffer_min" validate:"min=0,max=480"`
	LunchStart         string       `json:"lunch_start,omitempty" bson:"lunch_start,omitempty" validate:"omitempty,time_of_day"`
	LunchEnd           string       `json:"lunch_end,omitempty" bson:"lunch_end,omitempty" validate:"omitempty,time_of_day"`
	TimeZone           string       `json:"time_zone" bson:"time_zone" validate:"required,timezone"`
	Locations          []string     `json:"locations" bson:"locations" validate:"required,min=1,dive,oneof=in_person phone video"`
	WeeklyRules        []WeeklyRule `json:"weekly_rules" bson:"weekly_rules" validate:"required,len=7,unique=Day,dive"`
	CreatedAt          time.Time    `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt          time.Time    `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// SettingsUpdate carries a partial settings change. Nil/zero fields keep the
// stored value; WeeklyRules, when present, replaces all seven rules at once.
type SettingsUpdate struct {
	BookingType        string       `json:"booking_type,omitempty" validate:"omitempty,oneof=individual team"`
	BookingsPerSlot    *int         `json:"bookings_per_slot,omitempty" validate:"omitempty,min=1,max=200"`
	MeetingDurationMin *int         `json:"meeting_duration_min,omitempty" validate:"omitempty,min=5,max=480"`
	BufferMin          *int         `json:"buffer_min,omitempty" validate:"omitempty,min=0,max=480"`
	LunchStart         *string      `json:"lunch_start,omitempty" validate:"omitempty,time_of_day"`
	LunchEnd           *string      `json:"lunch_end,omitempty" validate:"omitempty,time_of_day"`
	TimeZone           string       `json:"time_zone,omitempty" validate:"omitempty,timezone"`
	Locations          []string     `json:"locations,omitempty" validate:"omitempty,min=1,dive,oneof=in_person phone video"`
	WeeklyRules        []WeeklyRule `json:"weekly_rules,omitempty" validate:"omitempty,len=7,unique=Day,dive"`
}

// RuleFor returns the weekly rule for the given weekday name, if configured.
func (s *BookingSettings) RuleFor(day string) (WeeklyRule, bool) {
	for _, r := range s.WeeklyRules {
		if r.Day == day {
			return r, true
		}
	}
	return WeeklyRule{}, false
}
