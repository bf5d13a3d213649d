package performance

import "fmt"

// OrphanAssignmentError reports an assignment referencing a task or
// developer missing from the supplied snapshot. The default policy drops
// the orphan and continues; strict mode surfaces this error instead.
type OrphanAssignmentError struct {
	TaskID      int64
	DeveloperID int64
	Reason      string
}

func (e *OrphanAssignmentError) Error() string {
	return fmt.Sprintf(
		"orphan assignment (task %d, developer %d): %s",
		e.TaskID, e.DeveloperID, e.Reason,
	)
}
