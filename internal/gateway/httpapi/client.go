// Package httpapi implements the ticket gateway against the remote
// helpdesk HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/gateway"
	"github.com/spec-kit/helpdesk-core/pkg/util"
)

// Client talks JSON to the remote helpdesk API. It is safe for concurrent
// use; each call is one request/response exchange.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout on the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// NewClient constructs a gateway client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ gateway.TicketGateway = (*Client)(nil)

// FetchTickets lists tickets matching the filter.
func (c *Client) FetchTickets(ctx context.Context, filter gateway.TicketFilter) ([]domain.Ticket, error) {
	query := url.Values{}
	if filter.CreatorID != nil {
		query.Set("creator_id", strconv.FormatInt(*filter.CreatorID, 10))
	}
	if filter.TechnicianID != nil {
		query.Set("technician_id", strconv.FormatInt(*filter.TechnicianID, 10))
	}
	for _, s := range filter.States {
		query.Add("state", string(s))
	}
	for _, p := range filter.Priorities {
		query.Add("priority", string(p))
	}
	if filter.Category != nil {
		query.Set("category", string(*filter.Category))
	}
	if filter.CreatedFrom != nil {
		query.Set("created_from", filter.CreatedFrom.Format(time.RFC3339))
	}
	if filter.CreatedTo != nil {
		query.Set("created_to", filter.CreatedTo.Format(time.RFC3339))
	}
	if filter.Search != nil {
		query.Set("search", *filter.Search)
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		query.Set("offset", strconv.Itoa(filter.Offset))
	}

	var payload struct {
		Tickets []wireTicket `json:"tickets"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tickets?"+query.Encode(), nil, &payload); err != nil {
		return nil, err
	}
	tickets := make([]domain.Ticket, 0, len(payload.Tickets))
	for _, wt := range payload.Tickets {
		tickets = append(tickets, wt.toDomain())
	}
	return tickets, nil
}

// FetchTicket loads one ticket by id.
func (c *Client) FetchTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	var payload struct {
		Ticket wireTicket `json:"ticket"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tickets/%d", id), nil, &payload); err != nil {
		return nil, err
	}
	t := payload.Ticket.toDomain()
	return &t, nil
}

// CreateTicket persists a new ticket; the remote store assigns the id and
// creation timestamp, both copied back into the passed value.
func (c *Client) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	body := wireTicketFromDomain(ticket)
	var payload struct {
		Ticket wireTicket `json:"ticket"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/tickets", body, &payload); err != nil {
		return err
	}
	*ticket = payload.Ticket.toDomain()
	return nil
}

// PersistTransition applies a patch and returns the authoritative ticket.
func (c *Client) PersistTransition(ctx context.Context, id int64, patch gateway.TicketPatch) (*domain.Ticket, error) {
	var payload struct {
		Ticket wireTicket `json:"ticket"`
	}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tickets/%d", id), wirePatchFromDomain(patch), &payload); err != nil {
		return nil, err
	}
	t := payload.Ticket.toDomain()
	return &t, nil
}

// PersistRating stores the creator's rating for a resolved ticket.
func (c *Client) PersistRating(ctx context.Context, id int64, rating domain.Rating) error {
	body := map[string]any{
		"value":   rating.Value,
		"comment": rating.Comment,
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/tickets/%d/rating", id), body, nil)
}

// FetchTechnicians lists the technician directory with load counts.
func (c *Client) FetchTechnicians(ctx context.Context) ([]domain.Technician, error) {
	var payload struct {
		Technicians []struct {
			ID          int64  `json:"id"`
			Name        string `json:"name"`
			Available   bool   `json:"available"`
			ActiveCount int    `json:"active_count"`
		} `json:"technicians"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/technicians", nil, &payload); err != nil {
		return nil, err
	}
	techs := make([]domain.Technician, 0, len(payload.Technicians))
	for _, t := range payload.Technicians {
		techs = append(techs, domain.Technician{
			ID:          t.ID,
			Name:        t.Name,
			Available:   t.Available,
			ActiveCount: t.ActiveCount,
		})
	}
	return techs, nil
}

// FetchHistory lists the audit trail of a ticket.
func (c *Client) FetchHistory(ctx context.Context, ticketID int64) ([]domain.HistoryEntry, error) {
	var payload struct {
		History []wireHistoryEntry `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tickets/%d/history", ticketID), nil, &payload); err != nil {
		return nil, err
	}
	entries := make([]domain.HistoryEntry, 0, len(payload.History))
	for _, h := range payload.History {
		entries = append(entries, h.toDomain())
	}
	return entries, nil
}

// AppendHistory records one audit entry.
func (c *Client) AppendHistory(ctx context.Context, entry *domain.HistoryEntry) error {
	return c.do(ctx, http.MethodPost,
		fmt.Sprintf("/api/tickets/%d/history", entry.TicketID),
		wireHistoryFromDomain(entry), nil)
}

// FetchComplaints lists complaints matching the filter.
func (c *Client) FetchComplaints(ctx context.Context, filter gateway.ComplaintFilter) ([]domain.Complaint, error) {
	query := url.Values{}
	if filter.TechnicianID != nil {
		query.Set("technician_id", strconv.FormatInt(*filter.TechnicianID, 10))
	}
	if filter.CreatorID != nil {
		query.Set("creator_id", strconv.FormatInt(*filter.CreatorID, 10))
	}
	if filter.State != nil {
		query.Set("state", string(*filter.State))
	}
	var payload struct {
		Complaints []wireComplaint `json:"complaints"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/complaints?"+query.Encode(), nil, &payload); err != nil {
		return nil, err
	}
	complaints := make([]domain.Complaint, 0, len(payload.Complaints))
	for _, wc := range payload.Complaints {
		complaints = append(complaints, wc.toDomain())
	}
	return complaints, nil
}

// FetchComplaint loads one complaint by id.
func (c *Client) FetchComplaint(ctx context.Context, id int64) (*domain.Complaint, error) {
	var payload struct {
		Complaint wireComplaint `json:"complaint"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/complaints/%d", id), nil, &payload); err != nil {
		return nil, err
	}
	complaint := payload.Complaint.toDomain()
	return &complaint, nil
}

// CreateComplaint persists a new complaint; the store assigns the id.
func (c *Client) CreateComplaint(ctx context.Context, complaint *domain.Complaint) error {
	var payload struct {
		Complaint wireComplaint `json:"complaint"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/complaints", wireComplaintFromDomain(complaint), &payload); err != nil {
		return err
	}
	*complaint = payload.Complaint.toDomain()
	return nil
}

// UpdateComplaint stores a complaint's resolution.
func (c *Client) UpdateComplaint(ctx context.Context, complaint *domain.Complaint) error {
	return c.do(ctx, http.MethodPut,
		fmt.Sprintf("/api/complaints/%d", complaint.ID),
		wireComplaintFromDomain(complaint), nil)
}

// FetchCategories lists the remote category catalog.
func (c *Client) FetchCategories(ctx context.Context) ([]domain.TicketCategory, error) {
	var payload struct {
		Categories []domain.TicketCategory `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/catalog/categories", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}

// FetchStates lists the remote state catalog.
func (c *Client) FetchStates(ctx context.Context) ([]domain.TicketState, error) {
	var payload struct {
		States []domain.TicketState `json:"states"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/catalog/states", nil, &payload); err != nil {
		return nil, err
	}
	return payload.States, nil
}

// FetchPriorities lists the remote priority catalog.
func (c *Client) FetchPriorities(ctx context.Context) ([]domain.TicketPriority, error) {
	var payload struct {
		Priorities []domain.TicketPriority `json:"priorities"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/catalog/priorities", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Priorities, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeError maps a remote rejection into the same DomainError shape the
// local engines produce, so callers handle both uniformly.
func decodeError(resp *http.Response) error {
	var payload struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Code == "" {
		return util.NewDomainError(util.CodeInternal,
			fmt.Sprintf("remote api returned status %d", resp.StatusCode),
			resp.StatusCode, nil)
	}
	return util.NewDomainError(payload.Code, payload.Message, resp.StatusCode, payload.Details)
}
