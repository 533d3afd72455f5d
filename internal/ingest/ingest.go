// Package ingest is the Ingest Pipeline (spec §4.F): mint an identifier,
// insert its metadata row, hand the identifier back to the caller
// immediately, and decode/encode/persist the original on a detached
// background worker.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"imageforge/internal/codec"
	"imageforge/internal/identifier"
	"imageforge/internal/imageformat"
	"imageforge/internal/imagepath"
	"imageforge/internal/imgerr"
	"imageforge/internal/metadatastore"
	"imageforge/internal/objectstore"
	"imageforge/internal/sweeper"
)

// Pipeline wires the stores, the codec gateway, and the sweeper into the
// ingest entry point.
type Pipeline struct {
	store    *metadatastore.Store
	objects  *objectstore.Store
	gateway  *codec.Gateway
	sweeper  *sweeper.Sweeper
	maxTTL   *int64 // server-configured max_ttl (IMAGE_TTL_SECS), spec §4.F TTL policy
	maxMints int    // loop guard against runaway identifier collisions
}

// New builds a Pipeline.
func New(store *metadatastore.Store, objects *objectstore.Store, gateway *codec.Gateway, sw *sweeper.Sweeper, maxTTL *int64) *Pipeline {
	return &Pipeline{store: store, objects: objects, gateway: gateway, sweeper: sw, maxTTL: maxTTL, maxMints: 1000}
}

// Ingest implements spec §4.F's entry point. requestedTTL is the client's
// optional ttl_secs.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, requestedTTL *int64) (identifier.ID, error) {
	expiresAt, err := DetermineExpiresAt(time.Now().UTC(), requestedTTL, p.maxTTL)
	if err != nil {
		return identifier.ID{}, imgerr.Internal("ttl policy", err)
	}

	// Step 2: sniff to reject non-image bytes early. The stored "original"
	// derivative is always recorded as PNG regardless of the sniffed
	// format — see DESIGN.md's Open Question decision.
	sniffed, err := codec.Sniff(data)
	if err != nil {
		return identifier.ID{}, imgerr.UnsupportedFormat("unrecognized image bytes")
	}

	id, err := p.mintIdentifier(ctx, expiresAt)
	if err != nil {
		return identifier.ID{}, err
	}

	// Step 5: detached background decode+encode+write+mark-computed. Uses
	// context.Background(), not the request context, so the obligation to
	// mark_computed survives client disconnection (spec §5 cancellation
	// model).
	go p.finishInBackground(id, data, sniffed)

	return id, nil
}

func (p *Pipeline) mintIdentifier(ctx context.Context, expiresAt time.Time) (identifier.ID, error) {
	for attempt := 0; attempt < p.maxMints; attempt++ {
		id := identifier.New()

		exists, err := p.store.IdentifierExists(ctx, id)
		if err != nil {
			return identifier.ID{}, err
		}
		if exists {
			continue
		}

		err = p.store.Insert(ctx, id, imageformat.PNG, expiresAt)
		if err == nil {
			return id, nil
		}
		if imgerr.IsConflict(err) {
			continue
		}
		return identifier.ID{}, err
	}
	return identifier.ID{}, imgerr.Internal("mint identifier", fmt.Errorf("exhausted %d attempts", p.maxMints))
}

func (p *Pipeline) finishInBackground(id identifier.ID, data []byte, sniffed imageformat.Format) {
	ctx := context.Background()

	img, err := p.gateway.Decode(ctx, data, sniffed)
	if err != nil {
		slog.Error("ingest worker: decode failed", "identifier", id.String(), "error", err)
		return
	}

	encoded, err := p.gateway.Encode(ctx, img, imageformat.PNG)
	if err != nil {
		slog.Error("ingest worker: encode failed", "identifier", id.String(), "error", err)
		return
	}

	path := imagepath.Derive(p.objects.Root, id, imageformat.PNG)
	if err := p.objects.Write(path, encoded); err != nil {
		slog.Error("ingest worker: write failed", "identifier", id.String(), "error", err)
		return
	}

	if err := p.sweeper.MarkComputed(ctx, id, imageformat.PNG); err != nil {
		slog.Error("ingest worker: mark computed failed", "identifier", id.String(), "error", err)
	}
}

// DetermineExpiresAt implements the TTL policy table in spec §4.F.
func DetermineExpiresAt(now time.Time, requested, max *int64) (time.Time, error) {
	switch {
	case requested == nil && max == nil:
		return time.Time{}, fmt.Errorf("no ttl_secs supplied and no server max_ttl configured")
	case requested == nil:
		return now.Add(time.Duration(*max) * time.Second), nil
	case max == nil:
		return now.Add(time.Duration(*requested) * time.Second), nil
	case *requested <= *max:
		return now.Add(time.Duration(*requested) * time.Second), nil
	default:
		return now.Add(time.Duration(*max) * time.Second), nil
	}
}
