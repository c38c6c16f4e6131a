package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/standardbeagle/codegraph/internal/eventbus"
)

// ProgressReporter lets an Executor announce per-project progress while a
// workspace folder job runs; Dispatcher's implementation turns each call
// into a ProjectIndexing* event on the bus.
type ProgressReporter interface {
	ProjectStarted(project string)
	ProjectCompleted(project string)
	ProjectFailed(project string, err error)
}

// Executor runs the actual indexing work for one workspace folder job.
// internal/pipeline implements this; dispatch only knows the interface,
// so the two packages don't import each other.
type Executor interface {
	IndexWorkspaceFolder(ctx context.Context, workspaceFolderPath string, report ProgressReporter) (projects []string, err error)
}

// Dispatcher accepts jobs and runs them one workspace-folder-queue at a
// time, fanning out across workspaces in parallel.
type Dispatcher struct {
	executor Executor
	events   *eventbus.Bus

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	workspaces map[string]*workspaceQueue

	jobsMu sync.RWMutex
	jobs   map[string]*JobInfo
}

// New creates a Dispatcher that runs jobs through executor and publishes
// lifecycle events to events.
func New(executor Executor, events *eventbus.Bus) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		executor:   executor,
		events:     events,
		ctx:        ctx,
		cancel:     cancel,
		workspaces: make(map[string]*workspaceQueue),
		jobs:       make(map[string]*JobInfo),
	}
}

// Dispatch enqueues job and returns its id. If a lower-or-equal priority
// job is already running for the same workspace, job enqueues behind it.
// If a higher-priority job is running, the running job is cancelled and
// job is moved to the front of that workspace's queue.
func (d *Dispatcher) Dispatch(job Job) string {
	id := uuid.NewString()
	info := &JobInfo{ID: id, Job: job, CreatedAt: time.Now(), Status: JobStatusPending}

	d.jobsMu.Lock()
	d.jobs[id] = info
	d.jobsMu.Unlock()

	ws := d.workspaceQueueFor(job.WorkspaceFolderPath)

	ws.mu.Lock()
	preempting := ws.current != nil && job.Priority > ws.current.info.Job.Priority
	if preempting {
		ws.current.preempted = true
		ws.current.cancel()
		ws.pending = append([]*JobInfo{info}, ws.pending...)
	} else {
		ws.pending = append(ws.pending, info)
	}
	ws.mu.Unlock()
	ws.notify()

	return id
}

// Status returns the tracked state of a dispatched job.
func (d *Dispatcher) Status(jobID string) (JobInfo, bool) {
	d.jobsMu.RLock()
	defer d.jobsMu.RUnlock()
	info, ok := d.jobs[jobID]
	if !ok {
		return JobInfo{}, false
	}
	return *info, true
}

// Shutdown stops accepting new work for running jobs to preempt into and
// waits for every workspace worker to exit.
func (d *Dispatcher) Shutdown() {
	d.cancel()
	d.wg.Wait()
}

func (d *Dispatcher) workspaceQueueFor(path string) *workspaceQueue {
	d.mu.Lock()
	defer d.mu.Unlock()
	ws, ok := d.workspaces[path]
	if ok {
		return ws
	}
	ws = newWorkspaceQueue()
	d.workspaces[path] = ws
	d.wg.Add(1)
	go d.runWorker(path, ws)
	return ws
}

func (d *Dispatcher) runWorker(path string, ws *workspaceQueue) {
	defer d.wg.Done()
	for {
		info, ok := ws.popNext(d.ctx)
		if !ok {
			return
		}
		d.runJob(path, ws, info)
	}
}

func (d *Dispatcher) runJob(path string, ws *workspaceQueue, info *JobInfo) {
	jobCtx, cancel := context.WithCancel(d.ctx)

	ws.mu.Lock()
	ws.current = &runningJob{info: info, cancel: cancel}
	ws.mu.Unlock()

	started := time.Now()
	d.jobsMu.Lock()
	info.StartedAt = &started
	info.Status = JobStatusRunning
	d.jobsMu.Unlock()

	d.events.Publish(eventbus.WorkspaceIndexingStarted{
		Workspace: path,
		Timestamp: started,
	})

	report := &busProgressReporter{events: d.events, timestamp: time.Now}
	projects, err := d.executor.IndexWorkspaceFolder(jobCtx, path, report)

	completed := time.Now()
	ws.mu.Lock()
	preempted := ws.current.preempted
	ws.current = nil
	ws.mu.Unlock()
	cancel()

	d.jobsMu.Lock()
	info.CompletedAt = &completed
	switch {
	case preempted:
		info.Status = JobStatusCancelled
		info.Error = "cancelled by higher-priority job"
	case err != nil:
		info.Status = JobStatusFailed
		info.Error = err.Error()
	default:
		info.Status = JobStatusCompleted
	}
	status, errMsg := info.Status, info.Error
	d.jobsMu.Unlock()

	if status == JobStatusCompleted {
		d.events.Publish(eventbus.WorkspaceIndexingCompleted{
			Workspace:       path,
			ProjectsIndexed: projects,
			Timestamp:       completed,
		})
	} else {
		d.events.Publish(eventbus.WorkspaceIndexingFailed{
			Workspace:       path,
			ProjectsIndexed: projects,
			Error:           errMsg,
			Timestamp:       completed,
		})
	}
}

// busProgressReporter turns per-project progress calls into events.
type busProgressReporter struct {
	events    *eventbus.Bus
	timestamp func() time.Time
}

func (r *busProgressReporter) ProjectStarted(project string) {
	r.events.Publish(eventbus.ProjectIndexingStarted{Project: project, Timestamp: r.timestamp()})
}

func (r *busProgressReporter) ProjectCompleted(project string) {
	r.events.Publish(eventbus.ProjectIndexingCompleted{Project: project, Timestamp: r.timestamp()})
}

func (r *busProgressReporter) ProjectFailed(project string, err error) {
	r.events.Publish(eventbus.ProjectIndexingFailed{Project: project, Error: err.Error(), Timestamp: r.timestamp()})
}

// workspaceQueue is the FIFO queue and cancellation handle for one
// workspace folder path's worker.
type workspaceQueue struct {
	mu      sync.Mutex
	pending []*JobInfo
	current *runningJob
	wake    chan struct{}
}

type runningJob struct {
	info      *JobInfo
	cancel    context.CancelFunc
	preempted bool
}

func newWorkspaceQueue() *workspaceQueue {
	return &workspaceQueue{wake: make(chan struct{}, 1)}
}

func (q *workspaceQueue) notify() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// popNext blocks until a job is pending or ctx is done.
func (q *workspaceQueue) popNext(ctx context.Context) (*JobInfo, bool) {
	for {
		q.mu.Lock()
		if len(q.pending) > 0 {
			job := q.pending[0]
			q.pending = q.pending[1:]
			q.mu.Unlock()
			return job, true
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
			continue
		case <-ctx.Done():
			return nil, false
		}
	}
}
