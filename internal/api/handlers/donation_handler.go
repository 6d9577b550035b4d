package handlers

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/internal/api/presenters"
	"FoodBridge-Backend/pkg/donation"
	"FoodBridge-Backend/pkg/matching"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DonationHandler interface {
		SubmitDonation(c *fiber.Ctx) error
		GetNearbyDonations(c *fiber.Ctx) error
		GetUserDonations(c *fiber.Ctx) error
		GetDonationByID(c *fiber.Ctx) error
		AcceptDonation(c *fiber.Ctx) error
		CompleteDonation(c *fiber.Ctx) error
		CancelDonation(c *fiber.Ctx) error
		RateDonation(c *fiber.Ctx) error
		GetDonationStatistics(c *fiber.Ctx) error
	}

	donationHandler struct {
		donationService donation.DonationService
		matchingService matching.MatchingService
		validator       *validator.Validate
	}
)

func NewDonationHandler(donationService donation.DonationService, matchingService matching.MatchingService, validator *validator.Validate) DonationHandler {
	return &donationHandler{
		donationService: donationService,
		matchingService: matchingService,
		validator:       validator,
	}
}

func (h *donationHandler) SubmitDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.SubmitDonationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	// Image is optional; a missing part is not an error.
	req.FoodImage, _ = c.FormFile("food_image")

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDonation, err)
	}

	result, err := h.donationService.SubmitDonation(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDonation, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusCreated, domain.MessageSuccessCreateDonation)
}

func (h *donationHandler) GetNearbyDonations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	radius, err := strconv.ParseFloat(c.Query("radius", "0"), 64)
	if err != nil || radius < 0 {
		radius = 0
	}

	matches, err := h.matchingService.MatchDonations(c.Context(), userID, radius)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetNearby, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"donations": matches,
	}, fiber.StatusOK, domain.MessageSuccessGetNearby)
}

func (h *donationHandler) GetUserDonations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	donations, count, err := h.donationService.GetUserDonations(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"donations": donations,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetDonationByID(c *fiber.Ctx) error {
	donationID := c.Params("id")
	if donationID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDonations, domain.ErrDonationNotFound)
	}

	result, err := h.donationService.GetDonationByID(c.Context(), donationID)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrDonationNotFound) {
			status = fiber.StatusNotFound
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) AcceptDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")

	acceptance, err := h.donationService.AcceptDonation(c.Context(), donationID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, acceptStatusCode(err), domain.MessageFailedAcceptDonation, err)
	}

	return presenters.SuccessResponse(c, acceptance, fiber.StatusOK, domain.MessageSuccessAcceptDonation)
}

// acceptStatusCode maps accept failures to HTTP codes: a lost race and a
// bad transition are conflicts, a missing donation is 404, everything
// else is a plain bad request.
func acceptStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrAlreadyAccepted), errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrDonationNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDonationExpired):
		return fiber.StatusGone
	case errors.Is(err, domain.ErrUnauthorizedDonationAccess),
		errors.Is(err, domain.ErrNotVerified),
		errors.Is(err, domain.ErrNotAnAcceptor):
		return fiber.StatusForbidden
	default:
		return fiber.StatusBadRequest
	}
}

func (h *donationHandler) CompleteDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")

	if err := h.donationService.CompleteDonation(c.Context(), donationID, userID); err != nil {
		return presenters.ErrorResponse(c, acceptStatusCode(err), domain.MessageFailedCompleteDonation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessCompleteDonation)
}

func (h *donationHandler) CancelDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")

	if err := h.donationService.CancelDonation(c.Context(), donationID, userID); err != nil {
		return presenters.ErrorResponse(c, acceptStatusCode(err), domain.MessageFailedCancelDonation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessCancelDonation)
}

func (h *donationHandler) RateDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")

	req := new(domain.RateDonationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRateDonation, err)
	}

	if err := h.donationService.RateDonation(c.Context(), donationID, userID, *req); err != nil {
		return presenters.ErrorResponse(c, acceptStatusCode(err), domain.MessageFailedRateDonation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRateDonation)
}

func (h *donationHandler) GetDonationStatistics(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	stats, err := h.donationService.GetDonationStatistics(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetStatistics, err)
	}

	return presenters.SuccessResponse(c, stats, fiber.StatusOK, domain.MessageSuccessGetStatistics)
}
