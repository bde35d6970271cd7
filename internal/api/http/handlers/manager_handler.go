package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-helpdesk/internal/api/dto"
	"github.com/spec-kit/it-helpdesk/internal/auth"
	"github.com/spec-kit/it-helpdesk/internal/domain"
	"github.com/spec-kit/it-helpdesk/internal/service"
	apperrors "github.com/spec-kit/it-helpdesk/pkg/util"
)

// ManagerHandler serves the manager dashboard: full ticket listing, status
// totals, and triage assignment.
type ManagerHandler struct {
	tickets *service.TicketService
}

// NewManagerHandler constructs the handler.
func NewManagerHandler(tickets *service.TicketService) *ManagerHandler {
	return &ManagerHandler{tickets: tickets}
}

// ListTickets handles GET /manager/tickets with optional status, location and
// assigned_to query filters.
func (h *ManagerHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter := service.TicketListFilter{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.TicketStatus(raw)
		if !domain.ValidStatus(status) {
			return apperrors.NewValidationError("unknown status filter", map[string]any{"status": raw})
		}
		filter.Status = &status
	}
	if location := c.Query("location"); location != "" {
		filter.Location = &location
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		filter.AssignedTo = &assignedTo
	}

	tickets, err := h.tickets.ListAll(c.UserContext(), principal.Identity, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tickets": dto.FromTickets(tickets)})
}

// TicketStats handles GET /manager/tickets/stats.
func (h *ManagerHandler) TicketStats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	counts, err := h.tickets.StatusCounts(c.UserContext(), principal.Identity)
	if err != nil {
		return err
	}

	stats := make(map[string]int, len(counts))
	for status, count := range counts {
		stats[string(status)] = count
	}
	return c.JSON(fiber.Map{"counts": stats})
}

// AssignTicket handles POST /manager/tickets/:ticketID/assign.
func (h *ManagerHandler) AssignTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	ticket, err := h.tickets.Assign(c.UserContext(), principal.Identity, c.Params("ticketID"), req.AssignedTo, req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}
