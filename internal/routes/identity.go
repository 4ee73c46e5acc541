package routes

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ALAAWF2/arabi-rent-home/internal/identity"
	"github.com/ALAAWF2/arabi-rent-home/internal/ledger"
)

// RegisterIdentityRoutes wires registration. Landlords get a wallet account
// provisioned on the spot so commissions and recharges have somewhere to post.
func RegisterIdentityRoutes(r fiber.Router, ids *identity.Service, ledgerBackend ledger.Ledger, logger *slog.Logger) {
	r.Post("/identity/register", func(c *fiber.Ctx) error {
		var req struct {
			Phone string `json:"phone"`
			PIN   string `json:"pin"`
			Role  string `json:"role"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		user, err := ids.Register(c.UserContext(), identity.Credentials{Phone: req.Phone, PIN: req.PIN, Role: req.Role})
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		walletProvisioned := false
		if user.Role == identity.RoleLandlord {
			if err := ledgerBackend.EnsureAccount(c.UserContext(), user.ID); err != nil {
				return fiber.NewError(http.StatusInternalServerError, err.Error())
			}
			walletProvisioned = true
		}

		if logger != nil {
			logger.Info("identity.register completed",
				slog.String("user_id", user.ID),
				slog.String("phone", user.Phone),
				slog.String("role", user.Role),
				slog.Bool("wallet_provisioned", walletProvisioned),
			)
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"user_id": user.ID,
			"phone":   user.Phone,
			"role":    user.Role,
			"wallet":  walletProvisioned,
		})
	})
}
