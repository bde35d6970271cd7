package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-helpdesk/internal/api/dto"
	"github.com/spec-kit/it-helpdesk/internal/auth"
	"github.com/spec-kit/it-helpdesk/internal/service"
	apperrors "github.com/spec-kit/it-helpdesk/pkg/util"
)

// StaffHandler serves the staff dashboard: the caller's active workload and
// the start and resolve transitions.
type StaffHandler struct {
	tickets *service.TicketService
}

// NewStaffHandler constructs the handler.
func NewStaffHandler(tickets *service.TicketService) *StaffHandler {
	return &StaffHandler{tickets: tickets}
}

// ListTickets handles GET /staff/tickets, scoped to the caller's assignments.
func (h *StaffHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	tickets, err := h.tickets.ListAssigned(c.UserContext(), principal.Identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tickets": dto.FromTickets(tickets)})
}

// StartTicket handles POST /staff/tickets/:ticketID/start.
func (h *StaffHandler) StartTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	ticket, err := h.tickets.Start(c.UserContext(), principal.Identity, c.Params("ticketID"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// ResolveTicket handles POST /staff/tickets/:ticketID/resolve.
func (h *StaffHandler) ResolveTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ResolveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	ticket, err := h.tickets.Resolve(c.UserContext(), principal.Identity, c.Params("ticketID"), req.Resolution)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}
