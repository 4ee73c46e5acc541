package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ALAAWF2/arabi-rent-home/internal/wallet"
)

// RegisterWalletRoutes wires landlord wallet endpoints. Recharge moves money,
// so it sits behind the idempotency guard when one is available.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler, idem fiber.Handler) {
	group := r.Group("/wallet")
	group.Get("", h.Overview)
	group.Get("/transactions", h.Transactions)
	if idem != nil {
		group.Post("/recharge", idem, h.Recharge)
	} else {
		group.Post("/recharge", h.Recharge)
	}
}
