package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/it-helpdesk/internal/config"
	"github.com/spec-kit/it-helpdesk/internal/domain"
	"github.com/spec-kit/it-helpdesk/internal/events"
	"github.com/spec-kit/it-helpdesk/internal/repository"
	"github.com/spec-kit/it-helpdesk/internal/upload"
	apperrors "github.com/spec-kit/it-helpdesk/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const ticketIDAttempts = 5

// TicketService is the lifecycle engine: it owns the transition rules, their
// guards, and ticket identifier generation.
type TicketService struct {
	tickets    repository.TicketRepository
	uploader   upload.Uploader
	dispatcher events.Dispatcher

	maxFiles     int
	maxFileBytes int64
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Uploader   upload.Uploader
	Dispatcher events.Dispatcher
	Upload     config.UploadConfig
}

// SubmitInput describes the unauthenticated submission payload.
type SubmitInput struct {
	Name       string
	EmployeeID string
	Email      string
	Location   string
	IssueDesc  string
}

// TicketListFilter describes manager dashboard filters.
type TicketListFilter struct {
	Status     *domain.TicketStatus
	Location   *string
	AssignedTo *string
	Limit      int
	Offset     int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	maxFiles := deps.Upload.MaxFiles
	if maxFiles <= 0 {
		maxFiles = 5
	}
	maxFileBytes := deps.Upload.MaxFileBytes
	if maxFileBytes <= 0 {
		maxFileBytes = 2 * 1024 * 1024
	}
	return &TicketService{
		tickets:      deps.TicketRepo,
		uploader:     deps.Uploader,
		dispatcher:   deps.Dispatcher,
		maxFiles:     maxFiles,
		maxFileBytes: maxFileBytes,
	}
}

// Submit validates a requester submission, uploads its attachments, and
// persists a new OPEN ticket. Nothing is persisted when validation or the
// upload fails.
func (s *TicketService) Submit(ctx context.Context, input SubmitInput, files []*multipart.FileHeader) (*domain.Ticket, error) {
	if err := validateSubmission(&input); err != nil {
		return nil, err
	}
	if err := upload.Validate(files, s.maxFiles, s.maxFileBytes); err != nil {
		return nil, err
	}

	var attachments []domain.Attachment
	if len(files) > 0 {
		uploaded, err := s.uploader.Upload(ctx, files)
		if err != nil {
			return nil, apperrors.NewDomainError("UPLOAD_FAILED", "failed to upload attachments", http.StatusBadGateway, map[string]any{
				"reason": err.Error(),
			})
		}
		attachments = uploaded
	}

	ticketID, err := s.generateTicketID(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		TicketID:    ticketID,
		Name:        input.Name,
		EmployeeID:  input.EmployeeID,
		Email:       strings.ToLower(input.Email),
		Location:    input.Location,
		IssueDesc:   input.IssueDesc,
		Attachments: attachments,
		Status:      domain.TicketStatusOpen,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketCreated, ticket, ticket.EmployeeID)
	return ticket, nil
}

// Assign moves an OPEN ticket to ASSIGNED, binding it to one staff member
// and a priority. Manager only.
func (s *TicketService) Assign(ctx context.Context, actor *domain.Identity, ticketID, staff string, priority domain.TicketPriority) (*domain.Ticket, error) {
	if actor == nil || actor.Role != domain.RoleManager {
		return nil, apperrors.NewRoleForbidden(string(domain.RoleManager), actorRole(actor))
	}
	if !domain.ValidStaff(staff) {
		return nil, apperrors.NewValidationError("unknown staff member", map[string]any{"assigned_to": staff})
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(priority)})
	}

	ticket, err := s.requireTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusOpen {
		return nil, apperrors.NewConflict("ticket is not open", map[string]any{"status": string(ticket.Status)})
	}

	if err := s.tickets.Assign(ctx, ticketID, staff, priority); err != nil {
		return nil, transitionError(err, "assign")
	}

	updated, err := s.requireTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventTicketAssigned, updated, actor.Username)
	return updated, nil
}

// Start moves an ASSIGNED ticket to IN_PROGRESS. Only the assigned staff
// member may start work.
func (s *TicketService) Start(ctx context.Context, actor *domain.Identity, ticketID string) (*domain.Ticket, error) {
	if actor == nil || actor.Role != domain.RoleStaff {
		return nil, apperrors.NewRoleForbidden(string(domain.RoleStaff), actorRole(actor))
	}

	ticket, err := s.requireTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := requireAssignee(ticket, actor); err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusAssigned {
		return nil, apperrors.NewConflict("ticket is not assigned", map[string]any{"status": string(ticket.Status)})
	}

	if err := s.tickets.MarkInProgress(ctx, ticketID, actor.Username); err != nil {
		return nil, transitionError(err, "start")
	}

	updated, err := s.requireTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventTicketStatusChanged, updated, actor.Username)
	return updated, nil
}

// Resolve moves an ASSIGNED or IN_PROGRESS ticket to RESOLVED with
// non-empty resolution notes. Only the assigned staff member may resolve;
// resolution fields are immutable afterwards.
func (s *TicketService) Resolve(ctx context.Context, actor *domain.Identity, ticketID, resolution string) (*domain.Ticket, error) {
	if actor == nil || actor.Role != domain.RoleStaff {
		return nil, apperrors.NewRoleForbidden(string(domain.RoleStaff), actorRole(actor))
	}
	resolution = strings.TrimSpace(resolution)
	if resolution == "" {
		return nil, apperrors.NewValidationError("resolution notes are required", map[string]any{"resolution": "required"})
	}

	ticket, err := s.requireTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := requireAssignee(ticket, actor); err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusAssigned && ticket.Status != domain.TicketStatusInProgress {
		return nil, apperrors.NewConflict("ticket cannot be resolved in current status", map[string]any{"status": string(ticket.Status)})
	}

	if err := s.tickets.Resolve(ctx, ticketID, actor.Username, resolution); err != nil {
		return nil, transitionError(err, "resolve")
	}

	updated, err := s.requireTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventTicketResolved, updated, actor.Username)
	return updated, nil
}

// CheckStatus is the unauthenticated lookup: both employee id and ticket id
// must match exactly. A miss returns nil, nil rather than an error.
func (s *TicketService) CheckStatus(ctx context.Context, empID, ticketID string) (*domain.Ticket, error) {
	empID = strings.TrimSpace(empID)
	ticketID = strings.TrimSpace(ticketID)
	if empID == "" {
		return nil, apperrors.NewValidationError("employee id is required", map[string]any{"emp_id": "required"})
	}
	if !domain.ValidTicketID(ticketID) {
		return nil, apperrors.NewValidationError("invalid ticket id format, expected e.g. IT2025-0012", map[string]any{"ticket_id": ticketID})
	}

	ticket, err := s.tickets.GetByEmployeeAndTicketID(ctx, empID, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// ListAll returns tickets for the manager dashboard, newest first.
func (s *TicketService) ListAll(ctx context.Context, actor *domain.Identity, filter TicketListFilter) ([]domain.Ticket, error) {
	if actor == nil || actor.Role != domain.RoleManager {
		return nil, apperrors.NewRoleForbidden(string(domain.RoleManager), actorRole(actor))
	}
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		Status:     filter.Status,
		Location:   filter.Location,
		AssignedTo: filter.AssignedTo,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// StatusCounts returns per-status ticket totals for the manager dashboard.
func (s *TicketService) StatusCounts(ctx context.Context, actor *domain.Identity) (map[domain.TicketStatus]int, error) {
	if actor == nil || actor.Role != domain.RoleManager {
		return nil, apperrors.NewRoleForbidden(string(domain.RoleManager), actorRole(actor))
	}
	counts, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return counts, nil
}

// ListAssigned returns the caller's active workload: tickets assigned to
// them in ASSIGNED, IN_PROGRESS or RESOLVED state.
func (s *TicketService) ListAssigned(ctx context.Context, actor *domain.Identity) ([]domain.Ticket, error) {
	if actor == nil || actor.Role != domain.RoleStaff {
		return nil, apperrors.NewRoleForbidden(string(domain.RoleStaff), actorRole(actor))
	}
	username := actor.Username
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		AssignedTo: &username,
		Statuses: []domain.TicketStatus{
			domain.TicketStatusAssigned,
			domain.TicketStatusInProgress,
			domain.TicketStatusResolved,
		},
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// generateTicketID produces IT<year>-<4 digits>, retrying on store
// collisions. The format is the wire contract; the collision check is an
// improvement over the legacy generator, which never verified uniqueness.
func (s *TicketService) generateTicketID(ctx context.Context) (string, error) {
	year := time.Now().Year()
	for i := 0; i < ticketIDAttempts; i++ {
		candidate := fmt.Sprintf("IT%d-%04d", year, rand.Intn(10000))
		exists, err := s.tickets.TicketIDExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", apperrors.NewConflict("could not allocate a unique ticket id", nil)
}

func validateSubmission(input *SubmitInput) error {
	details := map[string]any{}

	input.Name = strings.TrimSpace(input.Name)
	input.EmployeeID = strings.TrimSpace(input.EmployeeID)
	input.Email = strings.TrimSpace(input.Email)
	input.IssueDesc = strings.TrimSpace(input.IssueDesc)

	switch {
	case input.Name == "":
		details["name"] = "name is required"
	case len(input.Name) < 2:
		details["name"] = "name must be at least 2 characters"
	}
	switch {
	case input.EmployeeID == "":
		details["emp_id"] = "employee id is required"
	case len(input.EmployeeID) < 3:
		details["emp_id"] = "employee id must be at least 3 characters"
	}
	switch {
	case input.Email == "":
		details["email"] = "email is required"
	case !emailPattern.MatchString(input.Email):
		details["email"] = "invalid email address"
	}
	if !domain.ValidLocation(input.Location) {
		details["location"] = "location is required"
	}
	switch {
	case input.IssueDesc == "":
		details["issue_desc"] = "issue description is required"
	case len(input.IssueDesc) < 10:
		details["issue_desc"] = "issue description must be at least 10 characters"
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("invalid submission", details)
	}
	return nil
}

func requireAssignee(ticket *domain.Ticket, actor *domain.Identity) error {
	if ticket.AssignedTo == nil || *ticket.AssignedTo != actor.Username {
		return apperrors.NewForbidden("ticket is assigned to another staff member")
	}
	return nil
}

func (s *TicketService) requireTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// transitionError maps a failed conditional update to a conflict: the row
// was there a moment ago, so its status moved underneath us.
func transitionError(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewConflict(fmt.Sprintf("ticket changed concurrently; %s rejected", action), nil)
	}
	return apperrors.MapError(err)
}

func actorRole(actor *domain.Identity) string {
	if actor == nil {
		return ""
	}
	return string(actor.Role)
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticket *domain.Ticket, actor string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Ticket:    *ticket,
		Actor:     actor,
		Timestamp: time.Now(),
	})
}
