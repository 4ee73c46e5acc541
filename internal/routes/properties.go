package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ALAAWF2/arabi-rent-home/internal/property"
)

// RegisterPropertyRoutes wires property listing endpoints.
func RegisterPropertyRoutes(r fiber.Router, h *property.Handler) {
	group := r.Group("/properties")
	group.Get("", h.List)
	group.Post("", h.Create)
	group.Get("/:propertyId", h.Get)
	group.Put("/:propertyId", h.Update)
	group.Delete("/:propertyId", h.Delete)
}
