package domain

// Snapshot bundles the immutable entity collections one aggregation pass
// operates on. Sprints arrive in chronological order from the store; the
// series builder relies on that order.
type Snapshot struct {
	Tasks       []Task
	Sprints     []Sprint
	Developers  []Developer
	Assignments []TaskAssignment
}
