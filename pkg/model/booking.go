package model

import (
	"time"

	"slotwise/pkg/timefmt"
)

const (
	// StatusConfirmed is the initial state; bookings are created confirmed,
	// there is no pending stage.
	StatusConfirmed = "confirmed"
	// StatusCancelled is terminal, reached only via an explicit cancel.
	StatusCancelled = "cancelled"
	// StatusCompleted is derived, never stored: a confirmed booking whose end
	// instant has passed.
	StatusCompleted = "completed"
)

// Booking is one confirmed appointment in a slot. Date and times are
// business-local wire encodings; CustomerTimeZone is kept for display only and
// never participates in capacity keys.
type Booking struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AgentID          string    `json:"agent_id" bson:"agent_id" validate:"required"`
	Date             string    `json:"date" bson:"date" validate:"required,calendar_date"`
	StartTime        string    `json:"start_time" bson:"start_time" validate:"required,time_of_day"`
	EndTime          string    `json:"end_time" bson:"end_time" validate:"required,time_of_day"`
	Status           string    `json:"status" bson:"status" validate:"required,oneof=confirmed cancelled"`
	Location         string    `json:"location" bson:"location" validate:"required,oneof=in_person phone video"`
	CustomerName     string    `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone    string    `json:"customer_phone,omitempty" bson:"customer_phone,omitempty" validate:"omitempty,min=7,max=20"`
	CustomerTimeZone string    `json:"customer_time_zone,omitempty" bson:"customer_time_zone,omitempty" validate:"omitempty,timezone"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	CancelledAt      time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty" validate:"omitempty"`

	// ManageToken is issued on create and never persisted. Presenting it on
	// cancel proves the caller made the booking.
	ManageToken string `json:"manage_token,omitempty" bson:"-" validate:"omitempty"`
}

// EffectiveStatus derives the display status at the given instant in the
// business zone. A confirmed booking whose end has passed reads as completed.
func (b *Booking) EffectiveStatus(now time.Time, businessLoc *time.Location) string {
	if b.Status != StatusConfirmed {
		return b.Status
	}
	end, err := b.endInstant(businessLoc)
	if err != nil {
		return b.Status
	}
	if !now.Before(end) {
		return StatusCompleted
	}
	return StatusConfirmed
}

// CanCancel reports whether the confirmed → cancelled transition is valid at
// the given instant. Cancelled and completed bookings have no transitions out.
func (b *Booking) CanCancel(now time.Time, businessLoc *time.Location) bool {
	return b.EffectiveStatus(now, businessLoc) == StatusConfirmed
}

func (b *Booking) endInstant(businessLoc *time.Location) (time.Time, error) {
	d, err := timefmt.ParseDate(b.Date)
	if err != nil {
		return time.Time{}, err
	}
	end, err := timefmt.ParseTimeOfDay(b.EndTime)
	if err != nil {
		return time.Time{}, err
	}
	return d.At(end, businessLoc), nil
}
