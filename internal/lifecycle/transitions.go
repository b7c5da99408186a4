package lifecycle

import "github.com/spec-kit/helpdesk-core/internal/domain"

// allowedTransitions is the forward lifecycle graph. Cancelled is reachable
// only from Open; Closed and Cancelled are terminal.
var allowedTransitions = map[domain.TicketState][]domain.TicketState{
	domain.TicketStateOpen:      {domain.TicketStateInProcess, domain.TicketStateCancelled},
	domain.TicketStateInProcess: {domain.TicketStateResolved},
	domain.TicketStateResolved:  {domain.TicketStateClosed},
	domain.TicketStateClosed:    {},
	domain.TicketStateCancelled: {},
}

func isValidTransition(current, next domain.TicketState) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// requiresSolution reports whether entering the state demands an acceptable
// solution text.
func requiresSolution(state domain.TicketState) bool {
	return state == domain.TicketStateResolved || state == domain.TicketStateClosed
}
