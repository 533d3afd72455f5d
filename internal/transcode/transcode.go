// Package transcode is the Transcode/Serve Pipeline (spec §4.G): resolve a
// derivative for a read, serving stored bytes verbatim on the fast path or
// lazily synthesizing and persisting a new derivative from an existing
// sibling format.
package transcode

import (
	"context"
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

// Pipeline wires the stores, codec gateway, and sweeper into the serve
// entry point.
type Pipeline struct {
	store   *metadatastore.Store
	objects *objectstore.Store
	gateway *codec.Gateway
	sweeper *sweeper.Sweeper
}

// New builds a Pipeline.
func New(store *metadatastore.Store, objects *objectstore.Store, gateway *codec.Gateway, sw *sweeper.Sweeper) *Pipeline {
	return &Pipeline{store: store, objects: objects, gateway: gateway, sweeper: sw}
}

// Result is the response the transport layer renders.
type Result struct {
	Bytes  []byte
	Format imageformat.Format
}

// Serve implements spec §4.G's entry point. targetFormat defaults to PNG
// when nil; width/height are independently optional.
func (p *Pipeline) Serve(ctx context.Context, id identifier.ID, targetFormat *imageformat.Format, width, height *int) (Result, error) {
	format := imageformat.PNG
	if targetFormat != nil {
		format = *targetFormat
	}

	rows, err := p.store.Lookup(ctx, id)
	if err != nil {
		return Result{}, imgerr.Internal("lookup identifier", err)
	}

	now := time.Now().UTC()

	// Step 2: opportunistic sweep trigger.
	for _, row := range rows {
		if row.ExpiresAt.Before(now) {
			p.sweeper.TriggerCleanExpired()
			break
		}
	}

	// Step 3: retain only non-expired rows.
	var live []metadatastore.Row
	for _, row := range rows {
		if !row.ExpiresAt.Before(now) {
			live = append(live, row)
		}
	}
	if len(live) == 0 {
		return Result{}, imgerr.NotFound("no non-expired derivative for identifier")
	}

	// Step 4: look for an exact format match.
	for _, row := range live {
		if row.Format == format {
			if !row.Computed {
				return Result{}, imgerr.NotYetComputed("derivative exists but is not yet computed")
			}
			return p.serveHit(ctx, id, row, width, height)
		}
	}

	// Miss: synthesize from a computed sibling derivative.
	var source *metadatastore.Row
	for i := range live {
		if live[i].Computed {
			source = &live[i]
			break
		}
	}
	if source == nil {
		return Result{}, imgerr.NotYetComputed("no computed sibling derivative available to transcode from")
	}

	return p.serveLazyDerivative(ctx, id, *source, format, width, height)
}

func (p *Pipeline) serveHit(ctx context.Context, id identifier.ID, row metadatastore.Row, width, height *int) (Result, error) {
	path := imagepath.Derive(p.objects.Root, id, row.Format)

	if width == nil && height == nil {
		data, err := p.objects.Read(path)
		if err != nil {
			return Result{}, imgerr.Internal("read stored derivative", err)
		}
		return Result{Bytes: data, Format: row.Format}, nil
	}

	raw, err := p.objects.Read(path)
	if err != nil {
		return Result{}, imgerr.Internal("read stored derivative", err)
	}

	img, err := p.gateway.Decode(ctx, raw, row.Format)
	if err != nil {
		return Result{}, imgerr.Internal("decode stored derivative", err)
	}

	resized, err := p.gateway.Resize(ctx, img, intOr(width, 0), intOr(height, 0))
	if err != nil {
		return Result{}, imgerr.Internal("resize", err)
	}

	encoded, err := p.gateway.Encode(ctx, resized, row.Format)
	if err != nil {
		return Result{}, imgerr.Internal("re-encode resized derivative", err)
	}
	return Result{Bytes: encoded, Format: row.Format}, nil
}

func (p *Pipeline) serveLazyDerivative(ctx context.Context, id identifier.ID, source metadatastore.Row, target imageformat.Format, width, height *int) (Result, error) {
	// Detached: per spec §5, a transcode whose caller disconnects still
	// finishes decoding/encoding and persists the new derivative as a side
	// effect; one that loses the race on insert still finishes and returns
	// its bytes, leaving persistence to the winner.
	bg := context.Background()

	sourcePath := imagepath.Derive(p.objects.Root, id, source.Format)
	raw, err := p.objects.Read(sourcePath)
	if err != nil {
		return Result{}, imgerr.Internal("read source derivative", err)
	}

	img, err := p.gateway.Decode(bg, raw, source.Format)
	if err != nil {
		return Result{}, imgerr.Internal("decode source derivative", err)
	}

	transformed := img
	if width != nil || height != nil {
		transformed, err = p.gateway.Resize(bg, img, intOr(width, 0), intOr(height, 0))
		if err != nil {
			return Result{}, imgerr.Internal("resize", err)
		}
	}

	encoded, err := p.gateway.Encode(bg, transformed, target)
	if err != nil {
		return Result{}, imgerr.Internal("encode lazy derivative", err)
	}

	// Persist: insert row (tolerating a Conflict from a concurrent racer),
	// write bytes, mark computed. The race loser still returns its own
	// encoded bytes to its caller (spec §4.G).
	err = p.store.Insert(bg, id, target, source.ExpiresAt)
	if err != nil && !imgerr.IsConflict(err) {
		return Result{}, imgerr.Internal("insert lazy derivative row", err)
	}
	if err == nil {
		destPath := imagepath.Derive(p.objects.Root, id, target)
		if writeErr := p.objects.Write(destPath, encoded); writeErr != nil {
			return Result{}, imgerr.Internal("write lazy derivative", writeErr)
		}
		if markErr := p.sweeper.MarkComputed(bg, id, target); markErr != nil {
			return Result{}, imgerr.Internal("mark lazy derivative computed", markErr)
		}
	}

	return Result{Bytes: encoded, Format: target}, nil
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
