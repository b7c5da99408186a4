package domain

// ActorRole enumerates the roles that operate on tickets.
type ActorRole string

const (
	RoleWorker     ActorRole = "WORKER"
	RoleTechnician ActorRole = "TECHNICIAN"
	RoleAdmin      ActorRole = "ADMIN"
)

// Classification groups requesters for priority resolution. It maps the
// requester's position to an urgency tier.
type Classification string

const (
	ClassificationStandard   Classification = "STANDARD"
	ClassificationSupervisor Classification = "SUPERVISOR"
	ClassificationManager    Classification = "MANAGER"
	ClassificationExecutive  Classification = "EXECUTIVE"
)

// Actor identifies who performs an operation. Engines receive the actor
// explicitly on every call and never read ambient session state.
type Actor struct {
	ID             int64
	Name           string
	Role           ActorRole
	Classification Classification
}

// IsAdmin reports whether the actor holds the administrator role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Technician is the assignment-facing view of a support agent, as exposed
// by the external directory. ActiveCount counts tickets currently held in
// Open or InProcess.
type Technician struct {
	ID          int64
	Name        string
	Available   bool
	ActiveCount int
}
