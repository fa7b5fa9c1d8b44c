package listings

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/seatswap/seatswap-backend/internal/dto"
	"github.com/seatswap/seatswap-backend/internal/middleware"
)

type ListingHandler struct {
	service *ListingService
}

func NewListingHandler(service *ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req CreateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	listing, err := h.service.Create(userID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidListing) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, ErrTicketNotOwned) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Season ticket not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create listing",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

func (h *ListingHandler) Browse(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price", "0"), 64)

	filter := BrowseFilter{
		Status:   c.Query("status", StatusActive),
		MaxPrice: maxPrice,
		Section:  c.Query("section"),
		Limit:    limit,
		Offset:   offset,
	}

	resp, err := h.service.Browse(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to browse listings",
		})
	}

	return c.JSON(resp)
}

func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	resp, err := h.service.Mine(userID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list listings",
		})
	}

	return c.JSON(resp)
}

func (h *ListingHandler) Get(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid listing id",
		})
	}

	listing, err := h.service.Get(listingID)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Listing not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load listing",
		})
	}

	return c.JSON(listing)
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid listing id",
		})
	}

	var req UpdateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	listing, err := h.service.Update(userID, listingID, req)
	if err != nil {
		return h.mutationError(c, err, "Failed to update listing")
	}

	return c.JSON(listing)
}

func (h *ListingHandler) MarkSold(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid listing id",
		})
	}

	var req MarkSoldRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	listing, err := h.service.MarkSold(userID, listingID, req)
	if err != nil {
		return h.mutationError(c, err, "Failed to mark listing sold")
	}

	return c.JSON(listing)
}

func (h *ListingHandler) Cancel(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid listing id",
		})
	}

	listing, err := h.service.Cancel(userID, listingID)
	if err != nil {
		return h.mutationError(c, err, "Failed to cancel listing")
	}

	return c.JSON(listing)
}

func (h *ListingHandler) mutationError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, ErrListingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Listing not found",
		})
	case errors.Is(err, ErrListingClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrInvalidListing):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
