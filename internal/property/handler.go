package property

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ALAAWF2/arabi-rent-home/internal/wallet"
)

// Handler exposes property HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a property HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Title         string `json:"title"`
	City          string `json:"city"`
	PricePerMonth int64  `json:"price_per_month"`
}

type updateRequest struct {
	Title         string `json:"title"`
	City          string `json:"city"`
	PricePerMonth int64  `json:"price_per_month"`
	Available     bool   `json:"available"`
}

type propertyResponse struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	City          string    `json:"city"`
	PricePerMonth int64     `json:"price_per_month"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"created_at"`
}

// Create publishes a listing for the authenticated landlord.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)

	p, err := h.service.Create(c.UserContext(), CreateInput{
		OwnerID:       uid,
		Role:          role,
		Title:         req.Title,
		City:          req.City,
		PricePerMonth: req.PricePerMonth,
	})
	if err != nil {
		if errors.Is(err, wallet.ErrAccountSuspended) {
			return fiber.NewError(http.StatusForbidden, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(p))
}

// Get returns one listing.
func (h *Handler) Get(c *fiber.Ctx) error {
	p, err := h.service.Get(c.UserContext(), c.Params("propertyId"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(p))
}

// Update rewrites a listing owned by the authenticated landlord.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	p, err := h.service.Update(c.UserContext(), UpdateInput{
		ID:            c.Params("propertyId"),
		OwnerID:       uid,
		Title:         req.Title,
		City:          req.City,
		PricePerMonth: req.PricePerMonth,
		Available:     req.Available,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNotOwner):
			return fiber.NewError(http.StatusForbidden, err.Error())
		default:
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}
	return c.Status(http.StatusOK).JSON(toResponse(p))
}

// Delete removes a listing owned by the authenticated landlord.
func (h *Handler) Delete(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)

	if err := h.service.Delete(c.UserContext(), c.Params("propertyId"), uid); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNotOwner):
			return fiber.NewError(http.StatusForbidden, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.SendStatus(http.StatusNoContent)
}

// List returns available listings, or the landlord's own with ?mine=true.
func (h *Handler) List(c *fiber.Ctx) error {
	var (
		props []Property
		err   error
	)
	if c.QueryBool("mine") {
		uid, _ := c.Locals("user_id").(string)
		props, err = h.service.ListByOwner(c.UserContext(), uid)
	} else {
		props, err = h.service.ListAvailable(c.UserContext())
	}
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]propertyResponse, 0, len(props))
	for _, p := range props {
		out = append(out, toResponse(p))
	}
	return c.Status(http.StatusOK).JSON(out)
}

func toResponse(p Property) propertyResponse {
	return propertyResponse{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		Title:         p.Title,
		City:          p.City,
		PricePerMonth: p.PricePerMonth,
		Available:     p.Available,
		CreatedAt:     p.CreatedAt,
	}
}
