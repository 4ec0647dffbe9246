package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pochi-pay/pochi_pay/internal/funding"
	"github.com/pochi-pay/pochi_pay/internal/payments"
	"github.com/pochi-pay/pochi_pay/internal/wallet"
)

// RegisterWalletRoutes wires wallet listing, creation and money movement endpoints.
func RegisterWalletRoutes(r fiber.Router, wallets *wallet.Handler, fundings *funding.Handler, pays *payments.Handler) {
	r.Get("/wallets", wallets.List)
	r.Post("/wallets", wallets.Create)
	r.Post("/wallets/fund", fundings.Fund)
	r.Post("/wallets/withdraw", fundings.Withdraw)
	r.Post("/wallets/transfer", pays.Transfer)
}
