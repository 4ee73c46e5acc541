package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ALAAWF2/arabi-rent-home/internal/wallet"
)

// Handler exposes booking HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a booking HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type requestBody struct {
	PropertyID string    `json:"property_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

type acceptBody struct {
	Confirm bool `json:"confirm"`
}

type bookingResponse struct {
	ID         string    `json:"id"`
	RenterID   string    `json:"renter_id"`
	OwnerID    string    `json:"owner_id"`
	PropertyID string    `json:"property_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Request creates a pending booking for the authenticated renter.
func (h *Handler) Request(c *fiber.Ctx) error {
	var req requestBody
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	b, err := h.service.Request(c.UserContext(), RequestInput{
		RenterID:   uid,
		PropertyID: req.PropertyID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(b))
}

// Preview returns the commission preview for a pending booking.
func (h *Handler) Preview(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)

	preview, err := h.service.Preview(c.UserContext(), c.Params("bookingId"), uid)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"booking_id":         preview.BookingID,
		"rental_amount":      preview.RentalAmount,
		"commission":         preview.Commission,
		"current_balance":    preview.CurrentBalance,
		"projected_balance":  preview.ProjectedBalance,
		"suspension_warning": preview.SuspensionWarning,
	})
}

// Accept runs the confirmed acceptance protocol.
func (h *Handler) Accept(c *fiber.Ctx) error {
	var req acceptBody
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)

	result, err := h.service.Accept(c.UserContext(), AcceptInput{
		BookingID: c.Params("bookingId"),
		OwnerID:   uid,
		Role:      role,
		Confirm:   req.Confirm,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"booking":        toResponse(result.Booking),
		"commission":     result.Commission,
		"wallet_balance": result.Balance,
		"wallet_status":  result.Status,
	})
}

// Reject marks a pending booking rejected.
func (h *Handler) Reject(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)

	b, err := h.service.Reject(c.UserContext(), c.Params("bookingId"), uid)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(b))
}

// Mine lists the authenticated renter's bookings.
func (h *Handler) Mine(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	bookings, err := h.service.ListForRenter(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponses(bookings))
}

// Received lists bookings requested against the authenticated landlord's properties.
func (h *Handler) Received(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	bookings, err := h.service.ListForOwner(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponses(bookings))
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, wallet.ErrAccountSuspended):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrFinalized), errors.Is(err, ErrConfirmationRequired):
		return fiber.NewError(http.StatusConflict, err.Error())
	default:
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
}

func toResponse(b Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		RenterID:   b.RenterID,
		OwnerID:    b.OwnerID,
		PropertyID: b.PropertyID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
	}
}

func toResponses(bookings []Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toResponse(b))
	}
	return out
}
