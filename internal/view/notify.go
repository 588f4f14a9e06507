package view

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ToastLifetime is how long a notification stays visible before the surface
// auto-dismisses it.
const ToastLifetime = 2 * time.Second

// Toast is a transient user-visible message. The ID lets a surface dismiss
// or dedupe a specific toast.
type Toast struct {
	ID       string
	Text     string
	Lifetime time.Duration
}

// NewToast builds a toast with a fresh id and the default lifetime.
func NewToast(text string) Toast {
	return Toast{
		ID:       uuid.New().String(),
		Text:     text,
		Lifetime: ToastLifetime,
	}
}

// Notifier is the external notification collaborator; rendering and
// animation of the message are outside the core.
type Notifier interface {
	Notify(ctx context.Context, t Toast)
}
