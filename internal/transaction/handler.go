package transaction

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/pochi-pay/pochi_pay/internal/wallet"
)

// Handler exposes the transaction history endpoint.
type Handler struct {
	repo    Repository
	wallets *wallet.Service
}

// NewHandler builds a transaction HTTP handler.
func NewHandler(repo Repository, wallets *wallet.Service) *Handler {
	return &Handler{repo: repo, wallets: wallets}
}

// Response is the wire representation of a transaction.
type Response struct {
	ID           string          `json:"id"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	FromWalletID string          `json:"fromWalletId,omitempty"`
	ToWalletID   string          `json:"toWalletId,omitempty"`
	Status       string          `json:"status"`
	Reference    string          `json:"reference,omitempty"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    string          `json:"createdAt"`
}

// List returns history for every wallet the caller owns, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	views, err := h.wallets.ListByOwner(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	walletIDs := make([]string, 0, len(views))
	for _, v := range views {
		walletIDs = append(walletIDs, v.ID)
	}

	txs, err := h.repo.ListByWallets(c.UserContext(), walletIDs)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]Response, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToResponse(tx))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"transactions": out})
}

// ToResponse maps a transaction onto its wire representation.
func ToResponse(tx Transaction) Response {
	return Response{
		ID:           tx.ID,
		Category:     string(tx.Category),
		Amount:       tx.Amount.Round(2),
		FromWalletID: tx.FromWalletID,
		ToWalletID:   tx.ToWalletID,
		Status:       string(tx.Status),
		Reference:    tx.Reference,
		Description:  tx.Description,
		CreatedAt:    tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
