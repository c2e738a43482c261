package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted   EventType = "SearchStarted"
	EventResultFound     EventType = "ResultFound"
	EventProgress        EventType = "Progress"
	EventSearchFinished  EventType = "SearchFinished"
	EventResultsCleared  EventType = "ResultsCleared"
	EventResultRemoved   EventType = "ResultRemoved"
	EventExportCompleted EventType = "ExportCompleted"
	EventConfigSaved     EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted once a run enters Running
type SearchStartedEvent struct {
	RunID   string
	Request SearchRequest
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// ResultFoundEvent is emitted for every published match, in discovery order
type ResultFoundEvent struct {
	RunID  string
	Result MatchResult
}

func (e ResultFoundEvent) Type() EventType { return EventResultFound }

// ProgressEvent carries a throttled progress snapshot
type ProgressEvent struct {
	RunID    string
	Progress ProgressCounters
}

func (e ProgressEvent) Type() EventType { return EventProgress }

// SearchFinishedEvent is emitted exactly once per run
type SearchFinishedEvent struct {
	RunID    string
	Request  SearchRequest
	State    RunState
	Progress ProgressCounters
	Results  int
	Err      error // set only when State is RunFailed
}

func (e SearchFinishedEvent) Type() EventType { return EventSearchFinished }

// ResultsClearedEvent is emitted when the result sink is emptied
type ResultsClearedEvent struct {
	RunID string
}

func (e ResultsClearedEvent) Type() EventType { return EventResultsCleared }

// ResultRemovedEvent is emitted when a single result is dropped by the user
type ResultRemovedEvent struct {
	Path string
}

func (e ResultRemovedEvent) Type() EventType { return EventResultRemoved }

// ExportCompletedEvent is emitted after results were copied into a folder
type ExportCompletedEvent struct {
	Dir    string
	Copied int
	Err    error
}

func (e ExportCompletedEvent) Type() EventType { return EventExportCompleted }

// ConfigSavedEvent is emitted after the configuration was written
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
