package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pochi-pay/pochi_pay/internal/billpay"
	"github.com/pochi-pay/pochi_pay/internal/payments"
)

// RegisterServiceRoutes wires the service catalogue and bill payment endpoints.
func RegisterServiceRoutes(r fiber.Router, billers *billpay.Handler, pays *payments.Handler) {
	r.Get("/services", billers.List)
	r.Post("/services/pay", pays.Pay)
}
