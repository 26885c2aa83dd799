package service

import (
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
)

// CountConfirmed counts bookings holding slot capacity. Cancelled bookings
// never count.
func CountConfirmed(existing []*model.Booking) int {
	count := 0
	for _, b := range existing {
		if b.Status == model.StatusConfirmed {
			count++
		}
	}
	return count
}

// SlotCapacity is the maximum number of confirmed bookings per slot key:
// always 1 for individual agents, bookings_per_slot for teams.
func SlotCapacity(settings *model.BookingSettings) int {
	if settings.BookingType == model.BookingTypeTeam {
		return settings.BookingsPerSlot
	}
	return 1
}

// CheckCapacity decides whether one more booking fits the slot shared by the
// given bookings. Returns a capacity-exceeded AppError when full.
func CheckCapacity(existing []*model.Booking, settings *model.BookingSettings) error {
	capacity := SlotCapacity(settings)
	confirmed := CountConfirmed(existing)
	if confirmed < capacity {
		return nil
	}
	return apperrors.CapacityExceeded("This time slot is fully booked", map[string]any{
		"capacity":  capacity,
		"confirmed": confirmed,
	})
}
