package service

import (
	"fmt"
	"time"

	"booknest-backend/config"
	"booknest-backend/entity"
)

// SlotService lists bookable time slots for a date
type SlotService interface {
	ListSlots(date string) (*entity.SlotListResponse, error)
}

// slotService implements SlotService interface
type slotService struct {
	cfg *config.Config
}

// NewSlotService creates a new slot service instance
func NewSlotService(cfg *config.Config) SlotService {
	return &slotService{
		cfg: cfg,
	}
}

// ListSlots returns hourly slots between the configured open and close hours.
// Slots already begun on the current day are marked unavailable.
func (s *slotService) ListSlots(date string) (*entity.SlotListResponse, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}

	now := time.Now()
	open := s.cfg.Booking.SlotOpenHour
	closeHour := s.cfg.Booking.SlotCloseHour

	slots := make([]entity.TimeSlot, 0, closeHour-open)
	for hour := open; hour < closeHour; hour++ {
		start := day.Add(time.Duration(hour) * time.Hour)
		slots = append(slots, entity.TimeSlot{
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Available: start.After(now),
		})
	}

	return &entity.SlotListResponse{
		Date:  date,
		Slots: slots,
	}, nil
}
