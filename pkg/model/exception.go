package model

import "time"

// DateException overrides the weekly rule for one calendar date, either
// blocking the whole day or substituting a custom window. At most one
// exception per (agent, date); the date is the DD-MON-YYYY wire encoding.
type DateException struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AgentID   string    `json:"agent_id" bson:"agent_id" validate:"required"`
	Date      string    `json:"date" bson:"date" validate:"required,calendar_date"`
	AllDay    bool      `json:"all_day" bson:"all_day"`
	StartTime string    `json:"start_time,omitempty" bson:"start_time,omitempty" validate:"omitempty,time_of_day"`
	EndTime   string    `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"omitempty,time_of_day"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ExceptionUpsert is one entry of the replace-for-given-dates edit flow. An
// entry with AllDay=false and no times reverts the date to its weekly rule.
type ExceptionUpsert struct {
	Date      string `json:"date" validate:"required,calendar_date"`
	AllDay    bool   `json:"all_day"`
	StartTime string `json:"start_time,omitempty" validate:"omitempty,time_of_day"`
	EndTime   string `json:"end_time,omitempty" validate:"omitempty,time_of_day"`
}

// IsReset reports whether the entry removes the override for its date.
func (e *ExceptionUpsert) IsReset() bool {
	return !e.AllDay && e.StartTime == "" && e.EndTime == ""
}
