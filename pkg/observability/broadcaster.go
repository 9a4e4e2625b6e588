package observability

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/debloat/internal/logging"
	"github.com/aretw0/debloat/pkg/domain"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 64

// Broadcaster is a ports.Observer that fans updates out to per-session subscribers.
// Delivery never blocks the publisher: a subscriber whose buffer is full misses
// the update and can detect the gap through Update.Seq.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan domain.Update]struct{} // SessionID -> Set of Channels
	buffer      int
	logger      *slog.Logger
}

// BroadcasterOption configures a Broadcaster.
type BroadcasterOption func(*Broadcaster)

// WithBuffer sets the per-subscriber buffer size.
func WithBuffer(n int) BroadcasterOption {
	return func(b *Broadcaster) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// WithBroadcastLogger sets the logger.
func WithBroadcastLogger(l *slog.Logger) BroadcasterOption {
	return func(b *Broadcaster) {
		if l != nil {
			b.logger = l
		}
	}
}

func NewBroadcaster(opts ...BroadcasterOption) *Broadcaster {
	b := &Broadcaster{
		subscribers: make(map[string]map[chan domain.Update]struct{}),
		buffer:      DefaultBuffer,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a subscriber for one session. The returned cancel function
// unregisters it and closes the channel.
func (b *Broadcaster) Subscribe(sessionID string) (<-chan domain.Update, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.Update, b.buffer)
	if _, ok := b.subscribers[sessionID]; !ok {
		b.subscribers[sessionID] = make(map[chan domain.Update]struct{})
	}
	b.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.subscribers[sessionID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(b.subscribers, sessionID)
				}
			}
		})
	}
}

// Subscribers returns the number of subscribers for a session.
func (b *Broadcaster) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[sessionID])
}

// Notify implements ports.Observer.
func (b *Broadcaster) Notify(_ context.Context, u domain.Update) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers[u.SessionID] {
		select {
		case ch <- u:
		default:
			// Drop message if channel is full (slow client)
			b.logger.Warn("Subscriber buffer full, dropping update", "session_id", u.SessionID, "seq", u.Seq)
		}
	}
}
