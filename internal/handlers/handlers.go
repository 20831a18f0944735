package handlers

import (
	"time"

	"raw-viewer/internal/cache"
	"raw-viewer/internal/jobs"
	"raw-viewer/internal/pipeline"
	"raw-viewer/internal/raw"
	"raw-viewer/internal/startup"
)

type Handlers struct {
	store       *cache.Store
	processor   *pipeline.Processor
	coordinator *jobs.Coordinator
	decoder     *raw.Dcraw
	hub         *Hub
	rawDir      string
	defaultRaw  string
	started     time.Time
}

func New(store *cache.Store, proc *pipeline.Processor, coord *jobs.Coordinator, dec *raw.Dcraw, hub *Hub, config *startup.Config) *Handlers {
	return &Handlers{
		store:       store,
		processor:   proc,
		coordinator: coord,
		decoder:     dec,
		hub:         hub,
		rawDir:      config.RawDir,
		defaultRaw:  config.DefaultRawPath,
		started:     time.Now(),
	}
}
