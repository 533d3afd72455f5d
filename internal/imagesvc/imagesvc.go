// Package imagesvc is the composition root wiring the Metadata Store,
// Object Store, Codec Gateway, Expiration Sweeper, Ingest Pipeline, and
// Transcode/Serve Pipeline into a single facade for the HTTP handlers.
// Mirrors the way the teacher's internal/imaging.Service composes its own
// dependencies (repo, client, job queue) into one type.
package imagesvc

import (
	"context"

	"imageforge/internal/codec"
	"imageforge/internal/config"
	"imageforge/internal/database"
	"imageforge/internal/identifier"
	"imageforge/internal/imageformat"
	"imageforge/internal/ingest"
	"imageforge/internal/metadatastore"
	"imageforge/internal/objectstore"
	"imageforge/internal/sweeper"
	"imageforge/internal/transcode"
)

// CodecWorkers is the size of the blocking worker pool backing the Codec
// Gateway. Not exposed via spec §6's config table (which reserves
// MAX_MEMORY_USAGE/width/height as unenforced); chosen as a small
// fixed constant, the same order of magnitude as the teacher's
// NewService(..., workerCount) call sites.
const CodecWorkers = 4

// Service is the image lifecycle engine facade.
type Service struct {
	Ingest    *ingest.Pipeline
	Transcode *transcode.Pipeline
	gateway   *codec.Gateway
	sweeper   *sweeper.Sweeper
}

// New wires every component together from a resolved Config and database
// handle, and starts the sweeper actor.
func New(ctx context.Context, cfg *config.Config, db *database.DB) (*Service, error) {
	objects, err := objectstore.New(cfg.ImagePath)
	if err != nil {
		return nil, err
	}

	store := metadatastore.New(db)
	gateway := codec.New(CodecWorkers)
	sw := sweeper.New(store, objects, sweeper.DefaultCapacity)
	sw.Start(ctx)

	ingestPipeline := ingest.New(store, objects, gateway, sw, cfg.ImageTTLSecs)
	transcodePipeline := transcode.New(store, objects, gateway, sw)

	return &Service{
		Ingest:    ingestPipeline,
		Transcode: transcodePipeline,
		gateway:   gateway,
		sweeper:   sw,
	}, nil
}

// Close releases the codec worker pool.
func (s *Service) Close() {
	s.gateway.Close()
}

// ParseFormat and identifier.Parse are re-exported narrowly for handlers
// that only need the wire-parsing half of these packages; kept here so
// handlers import imagesvc rather than reaching past the facade.
var (
	ParseIdentifier = identifier.Parse
	ParseFormat     = imageformat.Parse
)
