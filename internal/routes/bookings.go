package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ALAAWF2/arabi-rent-home/internal/booking"
)

// RegisterBookingRoutes wires the booking lifecycle. Accept deducts the
// commission, so it sits behind the idempotency guard when one is available.
func RegisterBookingRoutes(r fiber.Router, h *booking.Handler, idem fiber.Handler) {
	group := r.Group("/bookings")
	group.Post("", h.Request)
	group.Get("/mine", h.Mine)
	group.Get("/received", h.Received)
	group.Get("/:bookingId/preview", h.Preview)
	if idem != nil {
		group.Post("/:bookingId/accept", idem, h.Accept)
	} else {
		group.Post("/:bookingId/accept", h.Accept)
	}
	group.Post("/:bookingId/reject", h.Reject)
}
