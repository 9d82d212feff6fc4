package services

import "sync"

// StatusTracker keeps the ordered status history of each submission in
// memory so the presentation layer can poll the pipeline's progress.
type StatusTracker struct {
	mu   sync.Mutex
	runs map[string]*runStatus
}

type runStatus struct {
	statuses []string
	done     bool
	failed   bool
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{runs: make(map[string]*runStatus)}
}

// Record appends one status message to a submission's history. It satisfies
// StatusFunc.
func (t *StatusTracker) Record(id, status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run := t.runs[id]
	if run == nil {
		run = &runStatus{}
		t.runs[id] = run
	}
	run.statuses = append(run.statuses, status)
}

// Finish marks a submission's run as terminated.
func (t *StatusTracker) Finish(id string, failed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run := t.runs[id]
	if run == nil {
		run = &runStatus{}
		t.runs[id] = run
	}
	run.done = true
	run.failed = failed
}

// History returns a copy of the status messages recorded so far, plus the
// run's terminal flags. ok is false for unknown submissions.
func (t *StatusTracker) History(id string) (statuses []string, done, failed, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, ok := t.runs[id]
	if !ok {
		return nil, false, false, false
	}

	statuses = make([]string, len(run.statuses))
	copy(statuses, run.statuses)
	return statuses, run.done, run.failed, true
}
