package history

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"foldersearch/internal/eventbus"
)

const recordTimeout = 5 * time.Second

// Recorder writes an Entry for every SearchFinishedEvent on a bus
type Recorder struct {
	store  *Store
	logger hclog.Logger
	now    func() time.Time

	mu      sync.Mutex
	started map[string]time.Time // run id -> start time
	unsubs  []func()
}

// NewRecorder subscribes a recorder to bus. Call Stop to unsubscribe.
func NewRecorder(bus eventbus.EventBus, store *Store, logger hclog.Logger) *Recorder {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	r := &Recorder{
		store:   store,
		logger:  logger.Named("history"),
		now:     time.Now,
		started: make(map[string]time.Time),
	}
	r.unsubs = append(r.unsubs,
		bus.Subscribe(eventbus.EventSearchStarted, r.handleStarted),
		bus.Subscribe(eventbus.EventSearchFinished, r.handleFinished),
	)
	return r
}

// Stop unsubscribes from the bus
func (r *Recorder) Stop() {
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
}

func (r *Recorder) handleStarted(e eventbus.DomainEvent) {
	event, ok := e.(eventbus.SearchStartedEvent)
	if !ok {
		return
	}
	r.mu.Lock()
	r.started[event.RunID] = r.now()
	r.mu.Unlock()
}

func (r *Recorder) handleFinished(e eventbus.DomainEvent) {
	event, ok := e.(eventbus.SearchFinishedEvent)
	if !ok {
		return
	}

	finished := r.now()
	r.mu.Lock()
	started, ok := r.started[event.RunID]
	delete(r.started, event.RunID)
	r.mu.Unlock()
	if !ok {
		started = finished
	}

	entry := Entry{
		RunID:           event.RunID,
		StartPath:       event.Request.StartPath,
		Query:           event.Request.Query,
		Mode:            event.Request.Mode,
		CaseSensitive:   event.Request.CaseSensitive,
		Recursive:       event.Request.Recursive,
		IgnoreExtension: event.Request.IgnoreExtension,
		State:           event.State,
		FoldersVisited:  event.Progress.FoldersVisited,
		FilesVisited:    event.Progress.FilesVisited,
		Results:         event.Results,
		StartedAt:       started,
		FinishedAt:      finished,
	}
	if event.Err != nil {
		entry.Error = event.Err.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := r.store.Record(ctx, entry); err != nil {
		r.logger.Error("failed to record run", "run", event.RunID, "error", err)
		return
	}
	r.logger.Debug("recorded run", "run", event.RunID, "state", event.State.String())
}
