package controller

import (
	"net/http"

	"booknest-backend/entity"
	"booknest-backend/pkg/logger"
	"booknest-backend/service"
	"booknest-backend/validator"

	"github.com/labstack/echo/v4"
)

// PricingController handles price quote HTTP requests
type PricingController struct {
	pricingService service.PricingService
	validator      *validator.Validator
	logger         *logger.Logger
}

// NewPricingController creates a new pricing controller instance
func NewPricingController(pricingService service.PricingService, v *validator.Validator, logger *logger.Logger) *PricingController {
	return &PricingController{
		pricingService: pricingService,
		validator:      v,
		logger:         logger,
	}
}

// Quote computes a price breakdown for a list of line items
// @Summary Price quote
// @Description Compute subtotal, savings, tax and grand total for a list of items
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body entity.PriceQuoteRequest true "Items and discount"
// @Success 200 {object} entity.APIResponse{data=entity.PriceBreakdown}
// @Failure 400 {object} entity.APIResponse
// @Router /pricing/quote [post]
func (c *PricingController) Quote(ctx echo.Context) error {
	var req entity.PriceQuoteRequest

	if err := ctx.Bind(&req); err != nil {
		c.logger.Errorw("Failed to bind request", "error", err)
		return ctx.JSON(http.StatusBadRequest, entity.NewErrorResponse("Invalid request format"))
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Validation failed", "error", err)
		return ctx.JSON(http.StatusBadRequest, entity.NewErrorResponse(err.Error()))
	}

	breakdown := c.pricingService.Quote(&req)
	return ctx.JSON(http.StatusOK, entity.NewSuccessResponse("", breakdown))
}
