// Package sweeper is the Expiration Sweeper (spec §4.H): a single
// long-lived actor draining a bounded control channel of MarkComputed and
// CleanExpired messages, dispatching each to its own fire-and-forget task
// so a slow cleanup never head-of-line-blocks a MarkComputed update.
//
// Modeled on the original Rust DatabaseReceiver/DatabaseMessage actor
// (original_source/src/database.rs), translated into a goroutine draining
// a buffered Go channel, in the spirit of the teacher's
// internal/imaging/service.go worker-loop shape.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"imageforge/internal/identifier"
	"imageforge/internal/imageformat"
	"imageforge/internal/imagepath"
	"imageforge/internal/metadatastore"
	"imageforge/internal/objectstore"
)

// DefaultCapacity is the suggested control-channel bound (spec §5).
const DefaultCapacity = 1024

type markComputedMsg struct {
	id     identifier.ID
	format imageformat.Format
}

type cleanExpiredMsg struct{}

// Sweeper owns the control channel and the two stores it acts against.
type Sweeper struct {
	store   *metadatastore.Store
	objects *objectstore.Store
	ch      chan any
}

// New builds a Sweeper with a bounded control channel. Call Start to begin
// draining it.
func New(store *metadatastore.Store, objects *objectstore.Store, capacity int) *Sweeper {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Sweeper{store: store, objects: objects, ch: make(chan any, capacity)}
}

// Start runs the actor loop until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Sweeper) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.ch:
			go s.dispatch(msg)
		}
	}
}

func (s *Sweeper) dispatch(msg any) {
	switch m := msg.(type) {
	case markComputedMsg:
		// Detached: the obligation to durably flip computed survives the
		// request that produced this message.
		if err := s.store.MarkComputed(context.Background(), m.id, m.format); err != nil {
			slog.Error("sweeper: mark computed failed", "identifier", m.id.String(), "format", m.format, "error", err)
		}
	case cleanExpiredMsg:
		s.cleanExpired()
	}
}

func (s *Sweeper) cleanExpired() {
	deleted, err := s.store.DeleteExpired(context.Background(), time.Now().UTC())
	if err != nil {
		slog.Error("sweeper: delete expired rows failed", "error", err)
		return
	}
	for _, row := range deleted {
		path := imagepath.Derive(s.objects.Root, row.Identifier, row.Format)
		if err := s.objects.Remove(path); err != nil {
			// Logged, not propagated, per spec §4.H.
			slog.Error("sweeper: remove expired file failed", "path", path, "error", err)
		}
	}
}

// MarkComputed enqueues a MarkComputed message, awaiting a free slot (spec
// §5: "MarkComputed awaits").
func (s *Sweeper) MarkComputed(ctx context.Context, id identifier.ID, format imageformat.Format) error {
	select {
	case s.ch <- markComputedMsg{id: id, format: format}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerCleanExpired posts a CleanExpired message, dropping it silently
// if the channel is full (spec §5: "opportunistic sweeps drop").
func (s *Sweeper) TriggerCleanExpired() {
	select {
	case s.ch <- cleanExpiredMsg{}:
	default:
	}
}
