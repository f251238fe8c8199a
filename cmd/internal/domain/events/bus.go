package events

import (
	"context"

	"github.com/labstack/gommon/log"
)

// Bus fans events out to its handlers. Publish never waits for them: each
// handler runs through Dispatch, which defaults to a new goroutine, on a
// context detached from the caller's cancellation.
type Bus struct {
	handlers []Handler

	// Dispatch runs one handler invocation. Tests replace it to run inline.
	Dispatch func(fn func())
}

func NewBus(handlers ...Handler) *Bus {
	return &Bus{handlers: handlers}
}

func (b *Bus) Subscribe(h Handler) {
	b.handlers = append(b.handlers, h)
}

func (b *Bus) Publish(ctx context.Context, event Event) {
	if b == nil {
		return
	}

	detached := context.WithoutCancel(ctx)
	for _, h := range b.handlers {
		b.dispatch(func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("event handler panicked on %s: %v", event.GetType(), r)
				}
			}()
			h.Handle(detached, event)
		})
	}
}

func (b *Bus) dispatch(fn func()) {
	if b.Dispatch != nil {
		b.Dispatch(fn)
		return
	}
	go fn()
}

// Inline runs fn on the calling goroutine.
func Inline(fn func()) {
	fn()
}
