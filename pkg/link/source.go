package link

import (
	"context"

	"github.com/dayrise/dayrise.go/pkg/framework"
	"github.com/dayrise/dayrise.go/pkg/wire"
)

// Source provides complete records without blocking.
type Source interface {
	// TryReadRecord returns at most one record, or false if none is complete.
	TryReadRecord() (wire.Record, bool)
}

// DefaultInboxSize is the number of chunks buffered by an Inbox.
const DefaultInboxSize = 64

// Inbox is a Source fed with bytes from other goroutines.
// Deliver and Offer may be called concurrently, TryReadRecord only
// from the goroutine polling the source.
type Inbox struct {
	chunks chan []byte
	framer Framer
}

// NewInbox creates an Inbox buffering up to size chunks.
func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	return &Inbox{chunks: make(chan []byte, size)}
}

// SetMaxRecordSize sets the framer limit, see Framer.MaxRecordSize.
// It must be called before the inbox is used.
func (b *Inbox) SetMaxRecordSize(n int) {
	b.framer.MaxRecordSize = n
}

// Deliver queues a copy of p, blocking until there is room or ctx is done.
func (b *Inbox) Deliver(ctx context.Context, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	chunk := append([]byte(nil), p...)
	select {
	case b.chunks <- chunk:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Offer queues a copy of p without blocking. It reports false if the
// inbox is full and p is dropped.
func (b *Inbox) Offer(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	select {
	case b.chunks <- append([]byte(nil), p...):
		return true
	default:
		return false
	}
}

// TryReadRecord implements Source.
func (b *Inbox) TryReadRecord() (wire.Record, bool) {
	for {
		if rec, ok := b.framer.Next(); ok {
			return rec, true
		}
		select {
		case chunk := <-b.chunks:
			b.framer.Write(chunk)
		default:
			return "", false
		}
	}
}

// Mux polls several sources in round-robin order.
type Mux struct {
	sources []Source
	next    int
}

// NewMux creates a Mux.
func NewMux(sources ...Source) *Mux {
	return &Mux{sources: sources}
}

// Add appends sources.
func (m *Mux) Add(sources ...Source) *Mux {
	m.sources = append(m.sources, sources...)
	return m
}

// Len returns the number of sources.
func (m *Mux) Len() int {
	return len(m.sources)
}

// TryReadRecord implements Source. Polling starts after the source
// which produced the previous record.
func (m *Mux) TryReadRecord() (wire.Record, bool) {
	n := len(m.sources)
	for i := 0; i < n; i++ {
		idx := (m.next + i) % n
		if rec, ok := m.sources[idx].TryReadRecord(); ok {
			m.next = (idx + 1) % n
			return rec, true
		}
	}
	return "", false
}

// AddToLoop implements framework.LoopAdder. Sources which are
// Runnable are started with the loop.
func (m *Mux) AddToLoop(l *framework.Loop) {
	for _, src := range m.sources {
		if r, ok := src.(framework.Runnable); ok {
			l.AddRunnable(r)
		}
	}
}
