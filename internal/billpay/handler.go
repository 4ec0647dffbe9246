package billpay

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the service catalogue endpoint.
type Handler struct {
	repo Repository
}

// NewHandler builds a billpay HTTP handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type serviceResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// List returns the payable services as a bare array.
func (h *Handler) List(c *fiber.Ctx) error {
	services, err := h.repo.List(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]serviceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, serviceResponse{ID: svc.ID, Name: svc.Name, IsActive: svc.IsActive})
	}
	return c.Status(http.StatusOK).JSON(out)
}
