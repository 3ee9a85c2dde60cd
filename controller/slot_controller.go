package controller

import (
	"net/http"

	"booknest-backend/entity"
	"booknest-backend/pkg/logger"
	"booknest-backend/service"

	"github.com/labstack/echo/v4"
)

// SlotController handles time-slot listing HTTP requests
type SlotController struct {
	slotService service.SlotService
	logger      *logger.Logger
}

// NewSlotController creates a new slot controller instance
func NewSlotController(slotService service.SlotService, logger *logger.Logger) *SlotController {
	return &SlotController{
		slotService: slotService,
		logger:      logger,
	}
}

// ListSlots lists bookable time slots for a date
// @Summary List slots
// @Description List bookable time slots for a date
// @Tags Slots
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} entity.APIResponse{data=entity.SlotListResponse}
// @Failure 400 {object} entity.APIResponse
// @Router /slots [get]
func (c *SlotController) ListSlots(ctx echo.Context) error {
	date := ctx.QueryParam("date")
	if date == "" {
		return ctx.JSON(http.StatusBadRequest, entity.NewErrorResponse("date query parameter is required"))
	}

	response, err := c.slotService.ListSlots(date)
	if err != nil {
		c.logger.Warnw("Invalid slot date", "date", date, "error", err)
		return ctx.JSON(http.StatusBadRequest, entity.NewErrorResponse("Invalid date: expected YYYY-MM-DD"))
	}

	return ctx.JSON(http.StatusOK, entity.NewSuccessResponse("", response))
}
