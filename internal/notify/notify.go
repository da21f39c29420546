// Package notify holds the toast messages shown on the next rendered page.
package notify

import "sync"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// DefaultLife is how long a toast stays on screen, in milliseconds
const DefaultLife = 3000

// Toast is a non-blocking notification
type Toast struct {
	Severity Severity `json:"severity"`
	Summary  string   `json:"summary"`
	Detail   string   `json:"detail"`
	Life     int      `json:"life"`
}

// Notifier receives toasts
type Notifier interface {
	Add(Toast)
}

// Success builds a success toast with the default life
func Success(summary, detail string) Toast {
	return Toast{Severity: SeveritySuccess, Summary: summary, Detail: detail, Life: DefaultLife}
}

// Error builds an error toast with the default life
func Error(detail string) Toast {
	return Toast{Severity: SeverityError, Summary: "Error", Detail: detail, Life: DefaultLife}
}

// Queue is a Notifier that buffers toasts until they are rendered
type Queue struct {
	mu     sync.Mutex
	toasts []Toast
}

func (q *Queue) Add(t Toast) {
	if t.Life == 0 {
		t.Life = DefaultLife
	}
	q.mu.Lock()
	q.toasts = append(q.toasts, t)
	q.mu.Unlock()
}

// Drain returns the pending toasts in insertion order and empties the queue
func (q *Queue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.toasts
	q.toasts = nil
	return out
}

// Len returns the number of pending toasts
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.toasts)
}
