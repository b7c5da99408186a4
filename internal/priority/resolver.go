// Package priority derives the initial priority of a ticket from its
// category and the requester's classification.
package priority

import "github.com/spec-kit/helpdesk-core/internal/domain"

type tableKey struct {
	Category       domain.TicketCategory
	Classification domain.Classification
}

// Fallback is the priority for combinations absent from the table.
const Fallback = domain.TicketPriorityMedium

// table is the complete (category, classification) lookup. Network issues
// escalate fastest because they block whole groups of workers; executive
// requesters are bumped one tier across the board.
var table = map[tableKey]domain.TicketPriority{
	{domain.CategoryHardware, domain.ClassificationStandard}:   domain.TicketPriorityMedium,
	{domain.CategoryHardware, domain.ClassificationSupervisor}: domain.TicketPriorityMedium,
	{domain.CategoryHardware, domain.ClassificationManager}:    domain.TicketPriorityHigh,
	{domain.CategoryHardware, domain.ClassificationExecutive}:  domain.TicketPriorityHigh,

	{domain.CategorySoftware, domain.ClassificationStandard}:   domain.TicketPriorityMedium,
	{domain.CategorySoftware, domain.ClassificationSupervisor}: domain.TicketPriorityMedium,
	{domain.CategorySoftware, domain.ClassificationManager}:    domain.TicketPriorityHigh,
	{domain.CategorySoftware, domain.ClassificationExecutive}:  domain.TicketPriorityHigh,

	{domain.CategoryNetwork, domain.ClassificationStandard}:   domain.TicketPriorityHigh,
	{domain.CategoryNetwork, domain.ClassificationSupervisor}: domain.TicketPriorityHigh,
	{domain.CategoryNetwork, domain.ClassificationManager}:    domain.TicketPriorityUrgent,
	{domain.CategoryNetwork, domain.ClassificationExecutive}:  domain.TicketPriorityUrgent,

	{domain.CategoryPrinters, domain.ClassificationStandard}:   domain.TicketPriorityLow,
	{domain.CategoryPrinters, domain.ClassificationSupervisor}: domain.TicketPriorityLow,
	{domain.CategoryPrinters, domain.ClassificationManager}:    domain.TicketPriorityMedium,
	{domain.CategoryPrinters, domain.ClassificationExecutive}:  domain.TicketPriorityMedium,

	{domain.CategoryOther, domain.ClassificationStandard}:   domain.TicketPriorityLow,
	{domain.CategoryOther, domain.ClassificationSupervisor}: domain.TicketPriorityLow,
	{domain.CategoryOther, domain.ClassificationManager}:    domain.TicketPriorityMedium,
	{domain.CategoryOther, domain.ClassificationExecutive}:  domain.TicketPriorityMedium,
}

// Resolve returns the initial priority for a new ticket. It is a pure
// lookup: the same inputs always yield the same output, and unmapped
// combinations fall back to Medium.
func Resolve(category domain.TicketCategory, classification domain.Classification) domain.TicketPriority {
	if p, ok := table[tableKey{category, classification}]; ok {
		return p
	}
	return Fallback
}
