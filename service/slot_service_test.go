package service

import (
	"testing"
	"time"

	"booknest-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotTestConfig() *config.Config {
	return &config.Config{
		Booking: config.Booking{
			SlotOpenHour:  9,
			SlotCloseHour: 21,
		},
	}
}

func TestSlotService_ListSlots(t *testing.T) {
	s := NewSlotService(slotTestConfig())

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	response, err := s.ListSlots(tomorrow)
	require.NoError(t, err)

	assert.Equal(t, tomorrow, response.Date)
	require.Len(t, response.Slots, 12)

	first := response.Slots[0]
	assert.Equal(t, 9, first.StartTime.Hour())
	assert.Equal(t, 10, first.EndTime.Hour())
	assert.True(t, first.Available, "future slots are available")

	for _, slot := range response.Slots {
		assert.Equal(t, time.Hour, slot.EndTime.Sub(slot.StartTime))
	}
}

func TestSlotService_ListSlots_PastDayUnavailable(t *testing.T) {
	s := NewSlotService(slotTestConfig())

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	response, err := s.ListSlots(yesterday)
	require.NoError(t, err)

	for _, slot := range response.Slots {
		assert.False(t, slot.Available, "past slots are unavailable")
	}
}

func TestSlotService_ListSlots_InvalidDate(t *testing.T) {
	s := NewSlotService(slotTestConfig())

	for _, date := range []string{"", "not-a-date", "2026/01/01", "01-01-2026"} {
		_, err := s.ListSlots(date)
		assert.Error(t, err, "date %q must be rejected", date)
	}
}
