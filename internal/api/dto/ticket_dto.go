package dto

import (
	"time"

	"github.com/spec-kit/it-helpdesk/internal/domain"
)

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssignedTo string                `json:"assigned_to"`
	Priority   domain.TicketPriority `json:"priority"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	Resolution string `json:"resolution"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	FileName   string    `json:"file_name"`
	SizeBytes  int64     `json:"size_bytes"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	TicketID       string                 `json:"ticket_id"`
	Name           string                 `json:"name"`
	EmployeeID     string                 `json:"emp_id"`
	Email          string                 `json:"email"`
	Location       string                 `json:"location"`
	IssueDesc      string                 `json:"issue_desc"`
	Attachments    []AttachmentResponse   `json:"attachments"`
	Status         domain.TicketStatus    `json:"status"`
	AssignedTo     *string                `json:"assigned_to"`
	Priority       *domain.TicketPriority `json:"priority"`
	Resolution     *string                `json:"resolution"`
	ResolutionDate *time.Time             `json:"resolution_date"`
	ResolvedBy     *string                `json:"resolved_by"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// SubmitTicketResponse is returned after a successful submission.
type SubmitTicketResponse struct {
	TicketID string              `json:"ticket_id"`
	Status   domain.TicketStatus `json:"status"`
}

// FromTicket maps the domain aggregate to its response shape.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	attachments := make([]AttachmentResponse, 0, len(ticket.Attachments))
	for _, att := range ticket.Attachments {
		attachments = append(attachments, AttachmentResponse{
			FileName:   att.FileName,
			SizeBytes:  att.SizeBytes,
			URL:        att.URL,
			UploadedAt: att.UploadedAt,
		})
	}
	return TicketResponse{
		TicketID:       ticket.TicketID,
		Name:           ticket.Name,
		EmployeeID:     ticket.EmployeeID,
		Email:          ticket.Email,
		Location:       ticket.Location,
		IssueDesc:      ticket.IssueDesc,
		Attachments:    attachments,
		Status:         ticket.Status,
		AssignedTo:     ticket.AssignedTo,
		Priority:       ticket.Priority,
		Resolution:     ticket.Resolution,
		ResolutionDate: ticket.ResolutionDate,
		ResolvedBy:     ticket.ResolvedBy,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
}

// FromTickets maps a slice of tickets.
func FromTickets(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, FromTicket(&tickets[i]))
	}
	return items
}
