package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
)

type activeSubscriptionReader interface {
	ActiveSubscription(ctx context.Context, companyID string) (*entity.Subscription, error)
}

// SubscriptionHandler estado de la suscripción de la empresa. No pasa por el control de suscripción.
type SubscriptionHandler struct {
	active activeSubscriptionReader
}

func NewSubscriptionHandler(active activeSubscriptionReader) *SubscriptionHandler {
	return &SubscriptionHandler{active: active}
}

// Get godoc
// @Summary      Suscripción vigente
// @Tags         subscription
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SubscriptionResponse
// @Router       /api/subscription [get]
func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	s, err := h.active.ActiveSubscription(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	if s == nil {
		return c.JSON(dto.SubscriptionResponse{Active: false})
	}
	start, end := s.StartDate, s.EndDate
	return c.JSON(dto.SubscriptionResponse{
		Active:    true,
		Plan:      s.Plan,
		Status:    s.Status,
		StartDate: &start,
		EndDate:   &end,
		Gateway:   s.Gateway,
		Amount:    s.Amount.StringFixed(2),
	})
}
