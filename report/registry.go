// Package report renders finished estimate batches and hosts the
// extension points that let additional renderers and processors subscribe
// to a run. Renderers observe the batch; they never mutate its records.
package report

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"migration-cost/core/estimate"
	"migration-cost/core/types"
	"migration-cost/internal/logging"
)

// RunContext carries run-scoped information into hooks and renderers.
type RunContext struct {
	// ID uniquely identifies this run
	ID string

	// Region is the region estimated against
	Region string

	// Started is the run start time
	Started time.Time

	// Workers is the worker pool size used
	Workers int
}

// NewRunContext creates a context for one run.
func NewRunContext(region string, workers int) *RunContext {
	return &RunContext{
		ID:      uuid.NewString(),
		Region:  region,
		Started: time.Now(),
		Workers: workers,
	}
}

// PreProcessor may transform the inventory before estimation.
type PreProcessor func(machines []types.Machine, disks []types.DiskRecord, rc *RunContext) ([]types.Machine, []types.DiskRecord, error)

// PostProcessor may transform the finished batch before rendering.
type PostProcessor func(batch *estimate.Batch, rc *RunContext) (*estimate.Batch, error)

// Renderer produces one report artifact from a finished batch.
type Renderer interface {
	// Name identifies the renderer in logs
	Name() string

	// Generate renders the batch; it must not mutate it
	Generate(batch *estimate.Batch, rc *RunContext) error
}

// Registry holds the registered hooks and renderers for a run.
type Registry struct {
	mu             sync.Mutex
	preProcessors  []PreProcessor
	postProcessors []PostProcessor
	renderers      []Renderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterPreProcessor subscribes a pre-process hook.
func (r *Registry) RegisterPreProcessor(p PreProcessor) {
	r.mu.Lock()
	r.preProcessors = append(r.preProcessors, p)
	r.mu.Unlock()
}

// RegisterPostProcessor subscribes a post-process hook.
func (r *Registry) RegisterPostProcessor(p PostProcessor) {
	r.mu.Lock()
	r.postProcessors = append(r.postProcessors, p)
	r.mu.Unlock()
}

// RegisterRenderer subscribes a report renderer.
func (r *Registry) RegisterRenderer(renderer Renderer) {
	r.mu.Lock()
	r.renderers = append(r.renderers, renderer)
	r.mu.Unlock()
}

// RunPreProcess applies every pre-process hook in registration order. A
// failing hook is logged and skipped; the inventory passes through
// unchanged from its point of view.
func (r *Registry) RunPreProcess(machines []types.Machine, disks []types.DiskRecord, rc *RunContext) ([]types.Machine, []types.DiskRecord) {
	log := logging.Named("report")
	for _, hook := range r.snapshotPre() {
		m, d, err := hook(machines, disks, rc)
		if err != nil {
			log.Warnw("pre-process hook failed", "error", err)
			continue
		}
		machines, disks = m, d
	}
	return machines, disks
}

// RunPostProcess applies every post-process hook in registration order.
func (r *Registry) RunPostProcess(batch *estimate.Batch, rc *RunContext) *estimate.Batch {
	log := logging.Named("report")
	for _, hook := range r.snapshotPost() {
		b, err := hook(batch, rc)
		if err != nil || b == nil {
			log.Warnw("post-process hook failed", "error", err)
			continue
		}
		batch = b
	}
	return batch
}

// GenerateAll runs every registered renderer. Renderer failures are
// logged and do not stop the remaining renderers.
func (r *Registry) GenerateAll(batch *estimate.Batch, rc *RunContext) {
	log := logging.Named("report")
	for _, renderer := range r.snapshotRenderers() {
		if err := renderer.Generate(batch, rc); err != nil {
			log.Errorw("report renderer failed", "renderer", renderer.Name(), "error", err)
			continue
		}
		log.Infow("report generated", "renderer", renderer.Name())
	}
}

func (r *Registry) snapshotPre() []PreProcessor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PreProcessor(nil), r.preProcessors...)
}

func (r *Registry) snapshotPost() []PostProcessor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PostProcessor(nil), r.postProcessors...)
}

func (r *Registry) snapshotRenderers() []Renderer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Renderer(nil), r.renderers...)
}
