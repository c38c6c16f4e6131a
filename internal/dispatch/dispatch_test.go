package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codegraph/internal/eventbus"
)

type funcExecutor struct {
	fn func(ctx context.Context, path string, report ProgressReporter) ([]string, error)
}

func (f funcExecutor) IndexWorkspaceFolder(ctx context.Context, path string, report ProgressReporter) ([]string, error) {
	return f.fn(ctx, path, report)
}

func waitForStatus(t *testing.T, d *Dispatcher, jobID string, want JobStatus) JobInfo {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		info, ok := d.Status(jobID)
		require.True(t, ok)
		if info.Status == want {
			return info
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach status %s", jobID, want)
	return JobInfo{}
}

func TestDispatchRunsJobToCompletion(t *testing.T) {
	exec := funcExecutor{fn: func(ctx context.Context, path string, report ProgressReporter) ([]string, error) {
		report.ProjectStarted("proj")
		report.ProjectCompleted("proj")
		return []string{"proj"}, nil
	}}
	d := New(exec, eventbus.New())
	defer d.Shutdown()

	id := d.Dispatch(Job{WorkspaceFolderPath: "/ws", Priority: PriorityNormal})
	info := waitForStatus(t, d, id, JobStatusCompleted)
	assert.NotNil(t, info.CompletedAt)
}

func TestFailedJobReportsError(t *testing.T) {
	exec := funcExecutor{fn: func(ctx context.Context, path string, report ProgressReporter) ([]string, error) {
		return nil, errors.New("boom")
	}}
	d := New(exec, eventbus.New())
	defer d.Shutdown()

	id := d.Dispatch(Job{WorkspaceFolderPath: "/ws", Priority: PriorityNormal})
	info := waitForStatus(t, d, id, JobStatusFailed)
	assert.Equal(t, "boom", info.Error)
}

func TestJobsForSameWorkspaceRunSerially(t *testing.T) {
	var mu sync.Mutex
	var order []string

	exec := funcExecutor{fn: func(ctx context.Context, path string, report ProgressReporter) ([]string, error) {
		mu.Lock()
		order = append(order, path)
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		return nil, nil
	}}
	d := New(exec, eventbus.New())
	defer d.Shutdown()

	id1 := d.Dispatch(Job{WorkspaceFolderPath: "/ws", Priority: PriorityNormal})
	id2 := d.Dispatch(Job{WorkspaceFolderPath: "/ws", Priority: PriorityNormal})

	waitForStatus(t, d, id1, JobStatusCompleted)
	waitForStatus(t, d, id2, JobStatusCompleted)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, order, 2)
}

func TestHigherPriorityJobPreemptsRunning(t *testing.T) {
	entered := make(chan struct{}, 1)
	exec := funcExecutor{fn: func(ctx context.Context, path string, report ProgressReporter) ([]string, error) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	d := New(exec, eventbus.New())
	defer d.Shutdown()

	lowID := d.Dispatch(Job{WorkspaceFolderPath: "/ws", Priority: PriorityNormal})

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("low priority job never started")
	}

	highID := d.Dispatch(Job{WorkspaceFolderPath: "/ws", Priority: PriorityHigh})

	lowInfo := waitForStatus(t, d, lowID, JobStatusCancelled)
	assert.Equal(t, "cancelled by higher-priority job", lowInfo.Error)

	// The high priority job's executor invocation also blocks on ctx.Done,
	// so cancel the dispatcher to let it observe shutdown and complete the test.
	d.Shutdown()
	highInfo, ok := d.Status(highID)
	require.True(t, ok)
	assert.Contains(t, []JobStatus{JobStatusFailed, JobStatusCancelled}, highInfo.Status)
}

func TestLowerPriorityJobDoesNotPreemptRunning(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	exec := funcExecutor{fn: func(ctx context.Context, path string, report ProgressReporter) ([]string, error) {
		select {
		case entered <- struct{}{}:
		default:
		}
		select {
		case <-release:
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}}
	d := New(exec, eventbus.New())
	defer d.Shutdown()

	highID := d.Dispatch(Job{WorkspaceFolderPath: "/ws", Priority: PriorityHigh})
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("high priority job never started")
	}

	d.Dispatch(Job{WorkspaceFolderPath: "/ws", Priority: PriorityLow})

	info, ok := d.Status(highID)
	require.True(t, ok)
	assert.Equal(t, JobStatusRunning, info.Status)

	close(release)
	waitForStatus(t, d, highID, JobStatusCompleted)
}

func TestStatusUnknownJobReturnsFalse(t *testing.T) {
	d := New(funcExecutor{fn: func(ctx context.Context, path string, report ProgressReporter) ([]string, error) {
		return nil, nil
	}}, eventbus.New())
	defer d.Shutdown()

	_, ok := d.Status("does-not-exist")
	assert.False(t, ok)
}
