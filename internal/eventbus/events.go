package eventbus

import "time"

// WorkspaceIndexingStarted is published when a workspace folder job begins.
// The Dispatcher publishes it before the executor has discovered the
// workspace's projects, so Projects is left empty.
type WorkspaceIndexingStarted struct {
	Workspace string
	Projects  []string
	Timestamp time.Time
}

// WorkspaceIndexingCompleted is published when every project in a
// workspace folder job finished indexing.
type WorkspaceIndexingCompleted struct {
	Workspace       string
	ProjectsIndexed []string
	Timestamp       time.Time
}

// WorkspaceIndexingFailed is published when a workspace folder job ends
// without completing, including cancellation by a higher-priority job.
type WorkspaceIndexingFailed struct {
	Workspace       string
	ProjectsIndexed []string
	Error           string
	Timestamp       time.Time
}

// ProjectIndexingStarted is published when indexing begins for a single
// project within a workspace folder job.
type ProjectIndexingStarted struct {
	Project   string
	Timestamp time.Time
}

// ProjectIndexingCompleted is published when a single project finished
// indexing successfully.
type ProjectIndexingCompleted struct {
	Project   string
	Timestamp time.Time
}

// ProjectIndexingFailed is published when a single project's indexing
// failed or was cancelled.
type ProjectIndexingFailed struct {
	Project   string
	Error     string
	Timestamp time.Time
}
