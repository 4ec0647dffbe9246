package wallet

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
}

type walletResponse struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId,omitempty"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"`
	CreatedAt string          `json:"createdAt"`
}

// Create provisions a wallet for the authenticated owner.
func (h *Handler) Create(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if Type(req.Type) == TypeSystem {
		return fiber.NewError(http.StatusBadRequest, "cannot create system wallets")
	}

	created, err := h.service.Create(c.UserContext(), CreateInput{
		OwnerID:  uid,
		Name:     req.Name,
		Type:     Type(req.Type),
		Currency: req.Currency,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(toResponse(View{Wallet: created, Balance: decimal.Zero}))
}

// List returns the authenticated owner's wallets with balances.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	views, err := h.service.ListByOwner(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	wallets := make([]walletResponse, 0, len(views))
	for _, v := range views {
		wallets = append(wallets, toResponse(v))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"wallets": wallets})
}

// toResponse maps a wallet view onto its wire representation.
func toResponse(v View) walletResponse {
	return walletResponse{
		ID:        v.ID,
		OwnerID:   v.OwnerID,
		Name:      v.Name,
		Type:      string(v.Type),
		Currency:  v.Currency,
		Balance:   v.Balance.Round(2),
		IsActive:  v.IsActive,
		CreatedAt: v.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
