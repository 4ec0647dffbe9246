package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pochi-pay/pochi_pay/internal/transaction"
)

// RegisterTransactionRoutes wires the transaction history endpoint.
func RegisterTransactionRoutes(r fiber.Router, h *transaction.Handler) {
	r.Get("/transactions", h.List)
}
