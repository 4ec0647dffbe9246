package payments

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/pochi-pay/pochi_pay/internal/billpay"
	"github.com/pochi-pay/pochi_pay/internal/posting"
	"github.com/pochi-pay/pochi_pay/internal/transaction"
	"github.com/pochi-pay/pochi_pay/internal/wallet"
)

// Handler exposes transfer and bill payment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	FromWalletID string          `json:"fromWalletId"`
	ToWalletID   string          `json:"toWalletId"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
}

type payRequest struct {
	FromWalletID string          `json:"fromWalletId"`
	ServiceID    string          `json:"serviceId"`
	Amount       decimal.Decimal `json:"amount"`
}

// Transfer processes a wallet-to-wallet transfer.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	tx, err := h.service.Transfer(c.UserContext(), TransferInput{
		FromWalletID:    req.FromWalletID,
		ToWalletID:      req.ToWalletID,
		Amount:          req.Amount,
		Description:     req.Description,
		RequestorUserID: uid,
	})
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusCreated).JSON(transaction.ToResponse(tx))
}

// Pay processes a service bill payment.
func (h *Handler) Pay(c *fiber.Ctx) error {
	var req payRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	tx, err := h.service.Pay(c.UserContext(), PayInput{
		FromWalletID:    req.FromWalletID,
		ServiceID:       req.ServiceID,
		Amount:          req.Amount,
		RequestorUserID: uid,
	})
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusCreated).JSON(transaction.ToResponse(tx))
}

func mapError(err error) error {
	switch {
	case errors.Is(err, posting.ErrInsufficientFunds):
		return fiber.NewError(http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, posting.ErrDuplicateReference):
		return fiber.NewError(http.StatusConflict, "duplicate reference")
	case errors.Is(err, ErrSameWallet):
		return fiber.NewError(http.StatusBadRequest, ErrSameWallet.Error())
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, ErrInvalidAmount.Error())
	case errors.Is(err, ErrServiceInactive):
		return fiber.NewError(http.StatusBadRequest, ErrServiceInactive.Error())
	case errors.Is(err, wallet.ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, "not owner of source wallet")
	case errors.Is(err, wallet.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	case errors.Is(err, wallet.ErrInactive):
		return fiber.NewError(http.StatusBadRequest, wallet.ErrInactive.Error())
	case errors.Is(err, billpay.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "service not found")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
