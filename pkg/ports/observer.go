package ports

import (
	"context"

	"github.com/aretw0/debloat/pkg/domain"
)

// Observer receives session updates in the order the state changed.
// Notify is called synchronously from the goroutine that made the change and must not
// block for long or call back into mutating session methods.
type Observer interface {
	Notify(ctx context.Context, update domain.Update)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, update domain.Update)

// Notify calls f.
func (f ObserverFunc) Notify(ctx context.Context, update domain.Update) {
	f(ctx, update)
}
