package funding

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/pochi-pay/pochi_pay/internal/posting"
	"github.com/pochi-pay/pochi_pay/internal/transaction"
	"github.com/pochi-pay/pochi_pay/internal/wallet"
)

// Handler exposes HTTP endpoints for funding flows.
type Handler struct {
	service *Service
}

// NewHandler constructs a funding handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type fundRequest struct {
	WalletID          string          `json:"walletId"`
	Amount            decimal.Decimal `json:"amount"`
	ExternalReference string          `json:"externalReference"`
}

type withdrawRequest struct {
	WalletID  string          `json:"walletId"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
}

// Fund processes an externally settled wallet top-up.
func (h *Handler) Fund(c *fiber.Ctx) error {
	var req fundRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	result, err := h.service.Fund(c.UserContext(), FundInput{
		WalletID:          req.WalletID,
		Amount:            req.Amount,
		ExternalReference: req.ExternalReference,
		RequestorUserID:   uid,
	})
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusCreated).JSON(transaction.ToResponse(result.Transaction))
}

// Withdraw processes a wallet withdrawal.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req withdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	result, err := h.service.Withdraw(c.UserContext(), WithdrawInput{
		WalletID:        req.WalletID,
		Amount:          req.Amount,
		Reference:       req.Reference,
		RequestorUserID: uid,
	})
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusCreated).JSON(transaction.ToResponse(result.Transaction))
}

func mapError(err error) error {
	switch {
	case errors.Is(err, posting.ErrDuplicateReference):
		return fiber.NewError(http.StatusConflict, "duplicate reference")
	case errors.Is(err, posting.ErrInsufficientFunds):
		return fiber.NewError(http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, wallet.ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, "not owner of wallet")
	case errors.Is(err, wallet.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	case errors.Is(err, wallet.ErrInactive):
		return fiber.NewError(http.StatusBadRequest, "wallet is not active")
	default:
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
}
