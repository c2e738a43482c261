package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"foldersearch/internal/domain"
	"foldersearch/internal/eventbus"
	"foldersearch/internal/fsinfo"
	"foldersearch/internal/results"
)

// progressInterval throttles ProgressEvents
const progressInterval = 100 * time.Millisecond

// Service runs at most one search at a time in a background goroutine.
// Starting a search while another is running cancels the old one, waits for
// its worker to exit and only then clears the sink for the new run.
type Service struct {
	bus      eventbus.EventBus
	sink     results.Sink
	engine   *Engine
	logger   hclog.Logger
	progress Progress

	startMu sync.Mutex // serializes StartSearch

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	runID   string
	request domain.SearchRequest
	state   domain.RunState
	lastErr error
	running atomic.Bool
}

// NewService creates a search service publishing into sink and onto bus.
// bus may be nil when nobody listens for events.
func NewService(bus eventbus.EventBus, sink results.Sink, engine *Engine, logger hclog.Logger) *Service {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if engine == nil {
		engine = NewEngine(logger)
	}
	s := &Service{
		bus:    bus,
		sink:   sink,
		engine: engine,
		logger: logger.Named("search"),
	}
	s.progress.Reset()
	return s
}

// StartSearch cancels any running search, validates req and starts it in
// the background. It returns the new run's id without waiting for results.
// The previous run is stopped even when req is rejected.
func (s *Service) StartSearch(ctx context.Context, req domain.SearchRequest) (string, error) {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	// implicit cancel, then drain the previous worker so none of its
	// publications can land after the sink is cleared
	s.stopAndWait()

	if strings.TrimSpace(req.Query) == "" {
		return "", ErrEmptyQuery
	}
	if !fsinfo.IsDirectory(req.StartPath) {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, req.StartPath)
	}

	req.ID = uuid.NewString()
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.sink.Clear()
	s.progress.Reset()

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.runID = req.ID
	s.request = req
	s.state = domain.RunRunning
	s.lastErr = nil
	s.running.Store(true)
	s.mu.Unlock()

	s.publish(eventbus.ResultsClearedEvent{RunID: req.ID})
	s.publish(eventbus.SearchStartedEvent{RunID: req.ID, Request: req})
	s.logger.Info("search started", "run", req.ID, "start", req.StartPath, "query", req.Query,
		"mode", req.Mode.String(), "case_sensitive", req.CaseSensitive, "recursive", req.Recursive,
		"ignore_extension", req.IgnoreExtension)

	go s.run(runCtx, cancel, req, done)

	return req.ID, nil
}

// CancelSearch asks the running search to stop. It does not wait.
func (s *Service) CancelSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait blocks until the current run, if any, has finished
func (s *Service) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Stop cancels the current run and waits for it
func (s *Service) Stop() {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	s.stopAndWait()
}

func (s *Service) stopAndWait() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// IsRunning reports whether a run is in progress
func (s *Service) IsRunning() bool {
	return s.running.Load()
}

// State returns the state of the latest run
func (s *Service) State() domain.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RunID returns the id of the latest run
func (s *Service) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// Request returns the snapshot the latest run works from
func (s *Service) Request() domain.SearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.request
}

// LastError returns the error of the latest run when it failed
func (s *Service) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Progress returns a snapshot of the live counters
func (s *Service) Progress() domain.ProgressCounters {
	return s.progress.Snapshot()
}

// Results returns the sink the service publishes into
func (s *Service) Results() results.Sink {
	return s.sink
}

// ClearResults empties the sink outside of a run
func (s *Service) ClearResults() {
	s.sink.Clear()
	s.publish(eventbus.ResultsClearedEvent{RunID: s.RunID()})
}

// RemoveResult drops one result from the sink
func (s *Service) RemoveResult(path string) bool {
	if !s.sink.Remove(path) {
		return false
	}
	s.publish(eventbus.ResultRemovedEvent{Path: path})
	return true
}

func (s *Service) run(ctx context.Context, cancel context.CancelFunc, req domain.SearchRequest, done chan struct{}) {
	defer close(done)
	defer cancel()

	stopTicker := make(chan struct{})
	tickerDone := make(chan struct{})
	go s.reportProgress(req.ID, stopTicker, tickerDone)

	found := 0
	state, err := s.engine.Run(ctx, req, &s.progress, func(r domain.MatchResult) {
		found++
		s.sink.Append(r)
		s.publish(eventbus.ResultFoundEvent{RunID: req.ID, Result: r})
	})

	close(stopTicker)
	<-tickerDone

	progress := s.progress.Snapshot()

	s.mu.Lock()
	s.state = state
	s.lastErr = err
	s.running.Store(false)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("search failed", "run", req.ID, "error", err,
			"folders", progress.FoldersVisited, "files", progress.FilesVisited, "results", found)
	} else {
		s.logger.Info("search finished", "run", req.ID, "state", state.String(),
			"folders", progress.FoldersVisited, "files", progress.FilesVisited, "results", found)
	}

	s.publish(eventbus.ProgressEvent{RunID: req.ID, Progress: progress})
	s.publish(eventbus.SearchFinishedEvent{
		RunID:    req.ID,
		Request:  req,
		State:    state,
		Progress: progress,
		Results:  found,
		Err:      err,
	})
}

func (s *Service) reportProgress(runID string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.publish(eventbus.ProgressEvent{RunID: runID, Progress: s.progress.Snapshot()})
		case <-stop:
			return
		}
	}
}

func (s *Service) publish(e eventbus.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
