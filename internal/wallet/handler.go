package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ALAAWF2/arabi-rent-home/internal/identity"
	"github.com/ALAAWF2/arabi-rent-home/internal/ledger"
)

// Handler exposes landlord wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type rechargeRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Method      string `json:"method"`
}

type transactionResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Amount       int64     `json:"amount"`
	Description  string    `json:"description"`
	BookingID    string    `json:"booking_id,omitempty"`
	PropertyID   string    `json:"property_id,omitempty"`
	BalanceAfter int64     `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

// Overview returns the authenticated landlord's balance and status.
func (h *Handler) Overview(c *fiber.Ctx) error {
	ownerID, err := landlordID(c)
	if err != nil {
		return err
	}
	acct, err := h.service.Overview(c.UserContext(), ownerID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"balance":             acct.Balance,
		"status":              acct.Status,
		"last_transaction_at": acct.LastTransactionAt,
	})
}

// Recharge credits the authenticated landlord's wallet and returns the fresh
// balance and status in the response.
func (h *Handler) Recharge(c *fiber.Ctx) error {
	ownerID, err := landlordID(c)
	if err != nil {
		return err
	}
	var req rechargeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Recharge(c.UserContext(), RechargeInput{
		OwnerID:     ownerID,
		Amount:      req.Amount,
		Description: req.Description,
		Method:      req.Method,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"transaction_id":    result.TransactionID,
		"balance":           result.Balance,
		"status":            result.Status,
		"gateway_reference": result.GatewayReference,
	})
}

// Transactions returns the landlord's recent ledger entries, newest first.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	ownerID, err := landlordID(c)
	if err != nil {
		return err
	}
	txs, err := h.service.Transactions(c.UserContext(), ownerID)
	if err != nil {
		return mapError(err)
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse{
			ID:           tx.ID,
			Type:         tx.Type,
			Amount:       tx.Amount,
			Description:  tx.Description,
			BookingID:    tx.BookingID,
			PropertyID:   tx.PropertyID,
			BalanceAfter: tx.BalanceAfter,
			CreatedAt:    tx.CreatedAt,
		})
	}
	return c.Status(http.StatusOK).JSON(out)
}

func landlordID(c *fiber.Ctx) (string, error) {
	uid, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)
	if uid == "" {
		return "", fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	if role != identity.RoleLandlord {
		return "", fiber.NewError(http.StatusForbidden, "wallets are for landlords only")
	}
	return uid, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrAccountNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
