package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-helpdesk/internal/api/dto"
	"github.com/spec-kit/it-helpdesk/internal/service"
	apperrors "github.com/spec-kit/it-helpdesk/pkg/util"
)

// TicketsHandler serves the public requester surface: ticket submission and
// the employee-id plus ticket-id status lookup.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// Submit handles POST /tickets as a multipart form with optional image
// attachments under the "attachments" field.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	input := service.SubmitInput{
		Name:       c.FormValue("name"),
		EmployeeID: c.FormValue("emp_id"),
		Email:      c.FormValue("email"),
		Location:   c.FormValue("location"),
		IssueDesc:  c.FormValue("issue_desc"),
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["attachments"]
	}

	ticket, err := h.tickets.Submit(c.UserContext(), input, files)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.SubmitTicketResponse{
		TicketID: ticket.TicketID,
		Status:   ticket.Status,
	})
}

// CheckStatus handles GET /tickets/status?emp_id=...&ticket_id=... without
// authentication. A mismatch on either value is a plain not-found.
func (h *TicketsHandler) CheckStatus(c *fiber.Ctx) error {
	empID := c.Query("emp_id")
	ticketID := c.Query("ticket_id")

	ticket, err := h.tickets.CheckStatus(c.UserContext(), empID, ticketID)
	if err != nil {
		return err
	}
	if ticket == nil {
		return apperrors.NewNotFound("ticket", map[string]any{
			"emp_id":    empID,
			"ticket_id": ticketID,
		})
	}

	return c.JSON(dto.FromTicket(ticket))
}
