package portal

import (
	"sync"
	"time"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

type Toast struct {
	Kind    ToastKind
	Message string
	At      time.Time
}

// Notifier queues toasts for a session until the next render drains them.
type Notifier struct {
	mu     sync.Mutex
	toasts []Toast
}

func (n *Notifier) Success(msg string) { n.push(ToastSuccess, msg) }

func (n *Notifier) Error(msg string) { n.push(ToastError, msg) }

func (n *Notifier) push(kind ToastKind, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, Toast{Kind: kind, Message: msg, At: time.Now()})
}

// Drain returns the pending toasts in order and clears the queue.
func (n *Notifier) Drain() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.toasts
	n.toasts = nil
	return out
}

// Pending reports the queued toasts without clearing them.
func (n *Notifier) Pending() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Toast(nil), n.toasts...)
}
