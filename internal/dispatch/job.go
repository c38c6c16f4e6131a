// Package dispatch is the job dispatcher §4.H describes: one queue and
// one worker per workspace folder path, so jobs for different workspaces
// run in parallel while jobs for the same workspace run serially, with
// cooperative preemption when a higher-priority job for the same
// workspace arrives.
package dispatch

import "time"

// JobPriority orders jobs for preemption purposes. A job dispatched with
// a higher priority than the one currently running for its workspace
// preempts it.
type JobPriority int

const (
	PriorityLow JobPriority = iota
	PriorityNormal
	PriorityHigh
)

func (p JobPriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Job is the unit of work the dispatcher accepts: index every project
// found under a workspace folder path.
type Job struct {
	WorkspaceFolderPath string
	Priority            JobPriority
}

// JobStatus is a job's lifecycle state. Cancelled is distinct from
// Failed: a cancelled job was preempted by a higher-priority job for the
// same workspace, not defeated by an error.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// JobInfo is a job's tracked state, returned by Dispatcher.Status.
type JobInfo struct {
	ID          string
	Job         Job
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Status      JobStatus
	Error       string
}
