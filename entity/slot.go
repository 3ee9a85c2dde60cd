package entity

import (
	"time"
)

// TimeSlot is a bookable window on a given date
type TimeSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// SlotListResponse is the slot listing for a date
type SlotListResponse struct {
	Date  string     `json:"date"`
	Slots []TimeSlot `json:"slots"`
}
