// Package postgres implements the ticket gateway against a directly owned
// Postgres store, for deployments where this service is the authority
// rather than a client of the remote helpdesk API.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/gateway"
	"github.com/spec-kit/helpdesk-core/pkg/util"
)

// Store is a pgx-backed TicketGateway.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs the store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ gateway.TicketGateway = (*Store)(nil)

const ticketColumns = `id, title, description, category, creator_id, state, priority,
       technician_id, solution, rating_value, rating_comment, rated_at,
       complaint_id, created_at, assigned_at, resolved_at, closed_at`

// FetchTickets lists tickets matching the filter.
func (s *Store) FetchTickets(ctx context.Context, filter gateway.TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf("SELECT %s FROM tickets", ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("creator_id=$%d", len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("technician_id=$%d", len(args)))
	}
	if len(filter.States) > 0 {
		placeholders := make([]string, len(filter.States))
		for i, state := range filter.States {
			args = append(args, state)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("state IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, p := range filter.Priorities {
			args = append(args, p)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY id ASC", base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// FetchTicket loads one ticket by id.
func (s *Store) FetchTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM tickets WHERE id=$1", ticketColumns)
	row := s.pool.QueryRow(ctx, query, id)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, err
	}
	return ticket, nil
}

// CreateTicket persists a new ticket and assigns its id and creation time.
func (s *Store) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, category, creator_id, state, priority)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return s.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.CreatorID,
		ticket.State,
		ticket.Priority,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

// PersistTransition applies the patch and returns the stored ticket.
func (s *Store) PersistTransition(ctx context.Context, id int64, patch gateway.TicketPatch) (*domain.Ticket, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.State != nil {
		add("state", *patch.State)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.TechnicianID != nil {
		add("technician_id", *patch.TechnicianID)
	}
	if patch.Solution != nil {
		add("solution", *patch.Solution)
	}
	if patch.ComplaintID != nil {
		add("complaint_id", *patch.ComplaintID)
	}
	if patch.AssignedAt != nil {
		add("assigned_at", *patch.AssignedAt)
	}
	switch {
	case patch.ClearResolvedAt:
		add("resolved_at", nil)
	case patch.ResolvedAt != nil:
		add("resolved_at", *patch.ResolvedAt)
	}
	switch {
	case patch.ClearClosedAt:
		add("closed_at", nil)
	case patch.ClosedAt != nil:
		add("closed_at", *patch.ClosedAt)
	}
	if len(sets) == 0 {
		return s.FetchTicket(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tickets SET %s WHERE id=$%d RETURNING %s",
		strings.Join(sets, ", "), len(args), ticketColumns)
	row := s.pool.QueryRow(ctx, query, args...)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, err
	}
	return ticket, nil
}

// PersistRating stores the rating unless one already exists.
func (s *Store) PersistRating(ctx context.Context, id int64, rating domain.Rating) error {
	const query = `
        UPDATE tickets SET rating_value=$1, rating_comment=$2, rated_at=$3
        WHERE id=$4 AND rating_value IS NULL`
	cmd, err := s.pool.Exec(ctx, query, rating.Value, rating.Comment, rating.CreatedAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return util.NewAlreadyRated(id)
	}
	return nil
}

// FetchTechnicians lists technicians with their live active-ticket counts.
func (s *Store) FetchTechnicians(ctx context.Context) ([]domain.Technician, error) {
	const query = `
        SELECT t.id, t.name, t.available,
               COUNT(tk.id) FILTER (WHERE tk.state IN ('OPEN','IN_PROCESS')) AS active_count
        FROM technicians t
        LEFT JOIN tickets tk ON tk.technician_id = t.id
        GROUP BY t.id, t.name, t.available
        ORDER BY t.id ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Technician
	for rows.Next() {
		var tech domain.Technician
		if err := rows.Scan(&tech.ID, &tech.Name, &tech.Available, &tech.ActiveCount); err != nil {
			return nil, err
		}
		result = append(result, tech)
	}
	return result, rows.Err()
}

// FetchHistory lists the audit trail of a ticket, oldest first.
func (s *Store) FetchHistory(ctx context.Context, ticketID int64) ([]domain.HistoryEntry, error) {
	const query = `
        SELECT id, ticket_id, previous_state, new_state, actor_id, comment, created_at
        FROM ticket_history WHERE ticket_id=$1 ORDER BY id ASC`
	rows, err := s.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.PreviousState,
			&entry.NewState,
			&entry.ActorID,
			&entry.Comment,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// AppendHistory records one audit entry. Entries are never updated.
func (s *Store) AppendHistory(ctx context.Context, entry *domain.HistoryEntry) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, previous_state, new_state, actor_id, comment, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	return s.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.PreviousState,
		entry.NewState,
		entry.ActorID,
		entry.Comment,
		entry.CreatedAt,
	).Scan(&entry.ID)
}

const complaintColumns = `id, ticket_id, technician_id, creator_id, category, priority,
       description, state, admin_response, created_at, resolved_at`

// FetchComplaints lists complaints matching the filter.
func (s *Store) FetchComplaints(ctx context.Context, filter gateway.ComplaintFilter) ([]domain.Complaint, error) {
	base := fmt.Sprintf("SELECT %s FROM complaints", complaintColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("technician_id=$%d", len(args)))
	}
	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("creator_id=$%d", len(args)))
	}
	if filter.State != nil {
		args = append(args, *filter.State)
		clauses = append(clauses, fmt.Sprintf("state=$%d", len(args)))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY id ASC", base, strings.Join(clauses, " AND "))
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *complaint)
	}
	return result, rows.Err()
}

// FetchComplaint loads one complaint by id.
func (s *Store) FetchComplaint(ctx context.Context, id int64) (*domain.Complaint, error) {
	query := fmt.Sprintf("SELECT %s FROM complaints WHERE id=$1", complaintColumns)
	complaint, err := scanComplaint(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, err
	}
	return complaint, nil
}

// CreateComplaint persists a new complaint and assigns its id.
func (s *Store) CreateComplaint(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (ticket_id, technician_id, creator_id, category, priority, description, state, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`
	return s.pool.QueryRow(ctx, query,
		complaint.TicketID,
		complaint.TechnicianID,
		complaint.CreatorID,
		complaint.Category,
		complaint.Priority,
		complaint.Description,
		complaint.State,
		complaint.CreatedAt,
	).Scan(&complaint.ID)
}

// UpdateComplaint stores a complaint's resolution.
func (s *Store) UpdateComplaint(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET state=$1, admin_response=$2, resolved_at=$3
        WHERE id=$4`
	cmd, err := s.pool.Exec(ctx, query,
		complaint.State,
		complaint.AdminResponse,
		complaint.ResolvedAt,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return util.NewNotFound("complaint", map[string]any{"complaint_id": complaint.ID})
	}
	return nil
}

// FetchCategories returns the closed category enumeration.
func (s *Store) FetchCategories(ctx context.Context) ([]domain.TicketCategory, error) {
	return domain.AllTicketCategories, nil
}

// FetchStates returns the closed state enumeration.
func (s *Store) FetchStates(ctx context.Context) ([]domain.TicketState, error) {
	return domain.AllTicketStates, nil
}

// FetchPriorities returns the closed priority enumeration.
func (s *Store) FetchPriorities(ctx context.Context) ([]domain.TicketPriority, error) {
	return domain.AllTicketPriorities, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket        domain.Ticket
		ratingValue   *int
		ratingComment *string
		ratedAt       *time.Time
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.CreatorID,
		&ticket.State,
		&ticket.Priority,
		&ticket.TechnicianID,
		&ticket.Solution,
		&ratingValue,
		&ratingComment,
		&ratedAt,
		&ticket.ComplaintID,
		&ticket.CreatedAt,
		&ticket.AssignedAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	if ratingValue != nil && ratedAt != nil {
		rating := domain.Rating{Value: *ratingValue, CreatedAt: *ratedAt}
		if ratingComment != nil {
			rating.Comment = *ratingComment
		}
		ticket.Rating = &rating
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanComplaint(row rowScanner) (*domain.Complaint, error) {
	var (
		complaint     domain.Complaint
		adminResponse *string
	)
	if err := row.Scan(
		&complaint.ID,
		&complaint.TicketID,
		&complaint.TechnicianID,
		&complaint.CreatorID,
		&complaint.Category,
		&complaint.Priority,
		&complaint.Description,
		&complaint.State,
		&adminResponse,
		&complaint.CreatedAt,
		&complaint.ResolvedAt,
	); err != nil {
		return nil, err
	}
	if adminResponse != nil {
		complaint.AdminResponse = *adminResponse
	}
	return &complaint, nil
}
