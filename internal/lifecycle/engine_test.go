package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/pkg/util"
)

var testTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngineWithClock(func() time.Time { return testTime })
}

func worker(id int64) domain.Actor {
	return domain.Actor{ID: id, Name: "worker", Role: domain.RoleWorker, Classification: domain.ClassificationStandard}
}

func technician(id int64) domain.Actor {
	return domain.Actor{ID: id, Name: "tech", Role: domain.RoleTechnician, Classification: domain.ClassificationStandard}
}

func admin(id int64) domain.Actor {
	return domain.Actor{ID: id, Name: "admin", Role: domain.RoleAdmin, Classification: domain.ClassificationManager}
}

func openTicket() *domain.Ticket {
	return &domain.Ticket{
		ID:          42,
		Title:       "VPN drops every hour",
		Description: "Connection resets on the corporate VPN",
		Category:    domain.CategoryNetwork,
		CreatorID:   7,
		State:       domain.TicketStateOpen,
		Priority:    domain.TicketPriorityHigh,
		CreatedAt:   testTime.Add(-48 * time.Hour),
	}
}

func inProcessTicket() *domain.Ticket {
	t := openTicket()
	techID := int64(3)
	assignedAt := testTime.Add(-24 * time.Hour)
	t.State = domain.TicketStateInProcess
	t.TechnicianID = &techID
	t.AssignedAt = &assignedAt
	return t
}

func resolvedTicket() *domain.Ticket {
	t := inProcessTicket()
	solution := "Replaced the VPN gateway certificate"
	resolvedAt := testTime.Add(-2 * time.Hour)
	t.State = domain.TicketStateResolved
	t.Solution = &solution
	t.ResolvedAt = &resolvedAt
	return t
}

func strPtr(s string) *string { return &s }

func TestTransitionGraph(t *testing.T) {
	solution := strPtr("Reinstalled the network driver stack")

	cases := []struct {
		name     string
		from     domain.TicketState
		to       domain.TicketState
		solution *string
		wantCode string
	}{
		{"open to in process", domain.TicketStateOpen, domain.TicketStateInProcess, nil, ""},
		{"open to cancelled", domain.TicketStateOpen, domain.TicketStateCancelled, nil, ""},
		{"in process to resolved", domain.TicketStateInProcess, domain.TicketStateResolved, solution, ""},
		{"resolved to closed", domain.TicketStateResolved, domain.TicketStateClosed, solution, ""},
		{"open to resolved skips a step", domain.TicketStateOpen, domain.TicketStateResolved, solution, util.CodeInvalidTransition},
		{"open to closed skips steps", domain.TicketStateOpen, domain.TicketStateClosed, solution, util.CodeInvalidTransition},
		{"in process to cancelled", domain.TicketStateInProcess, domain.TicketStateCancelled, nil, util.CodeInvalidTransition},
		{"resolved back to in process", domain.TicketStateResolved, domain.TicketStateInProcess, nil, util.CodeInvalidTransition},
		{"closed is terminal", domain.TicketStateClosed, domain.TicketStateOpen, nil, util.CodeInvalidTransition},
		{"cancelled is terminal", domain.TicketStateCancelled, domain.TicketStateOpen, nil, util.CodeInvalidTransition},
		{"self transition rejected", domain.TicketStateOpen, domain.TicketStateOpen, nil, util.CodeInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := openTicket()
			ticket.State = tc.from

			entry, err := testEngine().Transition(ticket, tc.to, technician(3), tc.solution)
			if tc.wantCode != "" {
				require.Error(t, err)
				assert.True(t, util.HasCode(err, tc.wantCode), "want %s, got %v", tc.wantCode, err)
				assert.Equal(t, tc.from, ticket.State, "failed transition must not mutate the ticket")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, ticket.State)
			require.NotNil(t, entry)
			assert.Equal(t, tc.from, entry.PreviousState)
			assert.Equal(t, tc.to, entry.NewState)
		})
	}
}

func TestTransitionSolutionGuard(t *testing.T) {
	t.Run("resolving without any solution fails", func(t *testing.T) {
		ticket := inProcessTicket()
		_, err := testEngine().Transition(ticket, domain.TicketStateResolved, technician(3), nil)
		assert.True(t, util.HasCode(err, util.CodeMissingSolution))
		assert.Equal(t, domain.TicketStateInProcess, ticket.State)
		assert.Nil(t, ticket.ResolvedAt)
	})

	t.Run("missing solution takes precedence over the graph", func(t *testing.T) {
		ticket := openTicket()
		_, err := testEngine().Transition(ticket, domain.TicketStateResolved, technician(3), nil)
		assert.True(t, util.HasCode(err, util.CodeMissingSolution), "got %v", err)
		assert.Equal(t, domain.TicketStateOpen, ticket.State)
		assert.Nil(t, ticket.Solution)
		assert.Nil(t, ticket.ResolvedAt)
	})

	t.Run("whitespace padding does not satisfy the minimum", func(t *testing.T) {
		ticket := inProcessTicket()
		_, err := testEngine().Transition(ticket, domain.TicketStateResolved, technician(3), strPtr("   short    "))
		assert.True(t, util.HasCode(err, util.CodeMissingSolution))
	})

	t.Run("previously saved draft satisfies the guard", func(t *testing.T) {
		ticket := inProcessTicket()
		draft := "Swapped the faulty switch port"
		ticket.Solution = &draft

		_, err := testEngine().Transition(ticket, domain.TicketStateResolved, technician(3), nil)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStateResolved, ticket.State)
		require.NotNil(t, ticket.ResolvedAt)
		assert.Equal(t, testTime, *ticket.ResolvedAt)
	})

	t.Run("supplied text wins over the stored draft", func(t *testing.T) {
		ticket := inProcessTicket()
		draft := "draft text that is long enough"
		ticket.Solution = &draft

		_, err := testEngine().Transition(ticket, domain.TicketStateResolved, technician(3), strPtr("  final fix description  "))
		require.NoError(t, err)
		require.NotNil(t, ticket.Solution)
		assert.Equal(t, "final fix description", *ticket.Solution)
	})

	t.Run("closing stamps both timestamps when resolution is missing", func(t *testing.T) {
		ticket := resolvedTicket()
		ticket.ResolvedAt = nil

		_, err := testEngine().Transition(ticket, domain.TicketStateClosed, technician(3), nil)
		require.NoError(t, err)
		require.NotNil(t, ticket.ResolvedAt)
		require.NotNil(t, ticket.ClosedAt)
		assert.Equal(t, testTime, *ticket.ClosedAt)
	})
}

func TestAssignTechnician(t *testing.T) {
	t.Run("idle technician gets the ticket", func(t *testing.T) {
		ticket := openTicket()
		tech := domain.Technician{ID: 3, Name: "Dana", Available: true, ActiveCount: 0}

		entry, err := testEngine().AssignTechnician(ticket, tech, admin(9))
		require.NoError(t, err)
		require.NotNil(t, ticket.TechnicianID)
		assert.Equal(t, int64(3), *ticket.TechnicianID)
		require.NotNil(t, ticket.AssignedAt)
		assert.Equal(t, "technician assigned", entry.Comment)
	})

	t.Run("busy technician is rejected", func(t *testing.T) {
		ticket := openTicket()
		tech := domain.Technician{ID: 3, Name: "Dana", Available: true, ActiveCount: 1}

		_, err := testEngine().AssignTechnician(ticket, tech, admin(9))
		assert.True(t, util.HasCode(err, util.CodeConstraintViolation))
		assert.Nil(t, ticket.TechnicianID)
	})

	t.Run("re-assignment to the same technician discounts own load", func(t *testing.T) {
		ticket := inProcessTicket()
		tech := domain.Technician{ID: 3, Name: "Dana", Available: true, ActiveCount: 1}

		_, err := testEngine().AssignTechnician(ticket, tech, admin(9))
		require.NoError(t, err)
	})

	t.Run("terminal ticket cannot be assigned", func(t *testing.T) {
		ticket := openTicket()
		ticket.State = domain.TicketStateCancelled
		tech := domain.Technician{ID: 3, ActiveCount: 0}

		_, err := testEngine().AssignTechnician(ticket, tech, admin(9))
		assert.True(t, util.HasCode(err, util.CodeConstraintViolation))
	})
}

func TestAdminSetState(t *testing.T) {
	t.Run("non-admin is refused", func(t *testing.T) {
		ticket := openTicket()
		_, err := testEngine().AdminSetState(ticket, domain.TicketStateResolved, technician(3), strPtr("a solution long enough"))
		assert.True(t, util.HasCode(err, util.CodeForbidden))
	})

	t.Run("admin may skip forward with a solution", func(t *testing.T) {
		ticket := openTicket()
		_, err := testEngine().AdminSetState(ticket, domain.TicketStateClosed, admin(9), strPtr("resolved out of band by vendor"))
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStateClosed, ticket.State)
		require.NotNil(t, ticket.ClosedAt)
	})

	t.Run("solution guard still applies", func(t *testing.T) {
		ticket := openTicket()
		_, err := testEngine().AdminSetState(ticket, domain.TicketStateResolved, admin(9), nil)
		assert.True(t, util.HasCode(err, util.CodeMissingSolution))
	})

	t.Run("reopening clears completion timestamps", func(t *testing.T) {
		ticket := resolvedTicket()
		entry, err := testEngine().AdminSetState(ticket, domain.TicketStateInProcess, admin(9), nil)
		require.NoError(t, err)
		assert.Nil(t, ticket.ResolvedAt)
		assert.Nil(t, ticket.ClosedAt)
		assert.Equal(t, "administrative override", entry.Comment)
	})

	t.Run("same state is rejected", func(t *testing.T) {
		ticket := openTicket()
		_, err := testEngine().AdminSetState(ticket, domain.TicketStateOpen, admin(9), nil)
		assert.True(t, util.HasCode(err, util.CodeInvalidTransition))
	})
}

func TestCancel(t *testing.T) {
	t.Run("creator cancels an open ticket", func(t *testing.T) {
		ticket := openTicket()
		entry, err := testEngine().Cancel(ticket, worker(7))
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStateCancelled, ticket.State)
		assert.Equal(t, "cancelled by creator", entry.Comment)
	})

	t.Run("non-creator may not cancel", func(t *testing.T) {
		ticket := openTicket()
		_, err := testEngine().Cancel(ticket, worker(8))
		assert.True(t, util.HasCode(err, util.CodeForbidden))
		assert.Equal(t, domain.TicketStateOpen, ticket.State)
	})

	t.Run("in process tickets cannot be cancelled", func(t *testing.T) {
		ticket := inProcessTicket()
		_, err := testEngine().Cancel(ticket, worker(7))
		assert.True(t, util.HasCode(err, util.CodeInvalidTransition))
	})
}

func TestRate(t *testing.T) {
	t.Run("creator rates a resolved ticket once", func(t *testing.T) {
		ticket := resolvedTicket()
		err := testEngine().Rate(ticket, worker(7), 4, "quick turnaround")
		require.NoError(t, err)
		require.NotNil(t, ticket.Rating)
		assert.Equal(t, 4, ticket.Rating.Value)
		assert.Equal(t, testTime, ticket.Rating.CreatedAt)
	})

	t.Run("second rating fails even after closure", func(t *testing.T) {
		ticket := resolvedTicket()
		require.NoError(t, testEngine().Rate(ticket, worker(7), 5, ""))

		err := testEngine().Rate(ticket, worker(7), 3, "changed my mind")
		assert.True(t, util.HasCode(err, util.CodeAlreadyRated))
		assert.Equal(t, 5, ticket.Rating.Value)
	})

	t.Run("only resolved tickets are rateable", func(t *testing.T) {
		ticket := inProcessTicket()
		err := testEngine().Rate(ticket, worker(7), 4, "")
		assert.True(t, util.HasCode(err, util.CodeNotEligible))
	})

	t.Run("only the creator may rate", func(t *testing.T) {
		ticket := resolvedTicket()
		err := testEngine().Rate(ticket, worker(8), 4, "")
		assert.True(t, util.HasCode(err, util.CodeNotEligible))
	})

	t.Run("value must be between 1 and 5", func(t *testing.T) {
		for _, value := range []int{0, 6, -1} {
			ticket := resolvedTicket()
			err := testEngine().Rate(ticket, worker(7), value, "")
			assert.True(t, util.HasCode(err, util.CodeInvalidInput), "value %d", value)
			assert.Nil(t, ticket.Rating)
		}
	})
}

func TestSaveSolution(t *testing.T) {
	t.Run("technician drafts a solution", func(t *testing.T) {
		ticket := inProcessTicket()
		err := testEngine().SaveSolution(ticket, technician(3), "  interim diagnosis notes  ")
		require.NoError(t, err)
		require.NotNil(t, ticket.Solution)
		assert.Equal(t, "interim diagnosis notes", *ticket.Solution)
	})

	t.Run("workers may not edit solutions", func(t *testing.T) {
		ticket := inProcessTicket()
		err := testEngine().SaveSolution(ticket, worker(7), "text")
		assert.True(t, util.HasCode(err, util.CodeForbidden))
	})

	t.Run("terminal tickets are frozen", func(t *testing.T) {
		ticket := openTicket()
		ticket.State = domain.TicketStateClosed
		err := testEngine().SaveSolution(ticket, technician(3), "late notes")
		assert.True(t, util.HasCode(err, util.CodeConstraintViolation))
	})
}

func TestComplaints(t *testing.T) {
	t.Run("creator files against the assigned technician", func(t *testing.T) {
		ticket := inProcessTicket()
		complaint, err := testEngine().FileComplaint(ticket, worker(7), domain.ComplaintSlowResponse, domain.TicketPriorityMedium, "No updates in a week")
		require.NoError(t, err)
		assert.Equal(t, ticket.ID, complaint.TicketID)
		assert.Equal(t, int64(3), complaint.TechnicianID)
		assert.Equal(t, domain.ComplaintStatePending, complaint.State)
	})

	t.Run("unassigned ticket cannot be complained about", func(t *testing.T) {
		ticket := openTicket()
		_, err := testEngine().FileComplaint(ticket, worker(7), domain.ComplaintOther, domain.TicketPriorityLow, "description")
		assert.True(t, util.HasCode(err, util.CodeConstraintViolation))
	})

	t.Run("admin resolves a pending complaint once", func(t *testing.T) {
		ticket := inProcessTicket()
		complaint, err := testEngine().FileComplaint(ticket, worker(7), domain.ComplaintPoorService, domain.TicketPriorityMedium, "Rude on the phone")
		require.NoError(t, err)

		require.NoError(t, testEngine().ResolveComplaint(complaint, admin(9), "Spoke with the technician"))
		assert.Equal(t, domain.ComplaintStateResolved, complaint.State)
		assert.Equal(t, "Spoke with the technician", complaint.AdminResponse)
		require.NotNil(t, complaint.ResolvedAt)

		err = testEngine().ResolveComplaint(complaint, admin(9), "again")
		assert.True(t, util.HasCode(err, util.CodeAlreadyResolved))
	})

	t.Run("only admins resolve complaints", func(t *testing.T) {
		ticket := inProcessTicket()
		complaint, err := testEngine().FileComplaint(ticket, worker(7), domain.ComplaintPoorService, domain.TicketPriorityMedium, "Rude on the phone")
		require.NoError(t, err)

		err = testEngine().ResolveComplaint(complaint, technician(3), "response")
		assert.True(t, util.HasCode(err, util.CodeForbidden))
		assert.True(t, complaint.Pending())
	})
}
