package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/it-helpdesk/internal/domain"
)

// TicketFilter captures dashboard listing parameters.
type TicketFilter struct {
	Status     *domain.TicketStatus
	Statuses   []domain.TicketStatus
	Location   *string
	AssignedTo *string
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence. Create and the three
// transition methods assign timestamps server-side; the transition methods
// carry their status precondition so a lost race surfaces as ErrNoRows
// instead of silently overwriting.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error)
	GetByEmployeeAndTicketID(ctx context.Context, empID, ticketID string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error)
	TicketIDExists(ctx context.Context, ticketID string) (bool, error)
	Assign(ctx context.Context, ticketID, staff string, priority domain.TicketPriority) error
	MarkInProgress(ctx context.Context, ticketID, staff string) error
	Resolve(ctx context.Context, ticketID, staff, resolution string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_id, name, emp_id, email, location, issue_desc, attachments,
               status, assigned_to, priority, resolution, resolution_date, resolved_by,
               user_feedback, feedback_flag, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_id, name, emp_id, email, location, issue_desc, attachments, status, user_feedback, feedback_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketID,
		ticket.Name,
		ticket.EmployeeID,
		ticket.Email,
		ticket.Location,
		ticket.IssueDesc,
		ticket.Attachments,
		ticket.Status,
		ticket.UserFeedback,
		ticket.FeedbackFlag,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE ticket_id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, ticketID)
}

func (r *ticketRepository) GetByEmployeeAndTicketID(ctx context.Context, empID, ticketID string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE emp_id=$1 AND ticket_id=$2`, ticketColumns)
	return r.fetchSingle(ctx, query, empID, ticketID)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, args...), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Location != nil {
		args = append(args, *filter.Location)
		clauses = append(clauses, fmt.Sprintf("location=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error) {
	const query = `SELECT status, COUNT(*) FROM tickets GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.TicketStatus]int)
	for rows.Next() {
		var status domain.TicketStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *ticketRepository) TicketIDExists(ctx context.Context, ticketID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tickets WHERE ticket_id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ticketRepository) Assign(ctx context.Context, ticketID, staff string, priority domain.TicketPriority) error {
	const query = `
        UPDATE tickets SET assigned_to=$1, priority=$2, status=$3, updated_at=NOW()
        WHERE ticket_id=$4 AND status=$5`
	cmd, err := r.pool.Exec(ctx, query, staff, priority, domain.TicketStatusAssigned, ticketID, domain.TicketStatusOpen)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) MarkInProgress(ctx context.Context, ticketID, staff string) error {
	const query = `
        UPDATE tickets SET status=$1, updated_at=NOW()
        WHERE ticket_id=$2 AND assigned_to=$3 AND status=$4`
	cmd, err := r.pool.Exec(ctx, query, domain.TicketStatusInProgress, ticketID, staff, domain.TicketStatusAssigned)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Resolve(ctx context.Context, ticketID, staff, resolution string) error {
	const query = `
        UPDATE tickets SET status=$1, resolution=$2, resolution_date=NOW(), resolved_by=$3, updated_at=NOW()
        WHERE ticket_id=$4 AND assigned_to=$3 AND status IN ($5,$6)`
	cmd, err := r.pool.Exec(ctx, query,
		domain.TicketStatusResolved,
		resolution,
		staff,
		ticketID,
		domain.TicketStatusAssigned,
		domain.TicketStatusInProgress,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.Name,
		&ticket.EmployeeID,
		&ticket.Email,
		&ticket.Location,
		&ticket.IssueDesc,
		&ticket.Attachments,
		&ticket.Status,
		&ticket.AssignedTo,
		&ticket.Priority,
		&ticket.Resolution,
		&ticket.ResolutionDate,
		&ticket.ResolvedBy,
		&ticket.UserFeedback,
		&ticket.FeedbackFlag,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
