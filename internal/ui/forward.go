package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"foldersearch/internal/eventbus"
)

// forwardedEvents are the bus events the TUI reacts to
var forwardedEvents = []eventbus.EventType{
	eventbus.EventResultsCleared,
	eventbus.EventSearchStarted,
	eventbus.EventResultFound,
	eventbus.EventProgress,
	eventbus.EventSearchFinished,
	eventbus.EventResultRemoved,
	eventbus.EventConfigSaved,
}

// sender is the part of *tea.Program the forwarder needs
type sender interface {
	Send(msg tea.Msg)
}

// ForwardEvents sends bus events to the program as EventMsg, in publish
// order. The returned func unsubscribes.
func ForwardEvents(bus eventbus.EventBus, p sender) func() {
	unsubs := make([]func(), 0, len(forwardedEvents))
	for _, t := range forwardedEvents {
		unsubs = append(unsubs, bus.Subscribe(t, func(e eventbus.DomainEvent) {
			// Send blocks until the program reads it and returns once the program exited
			p.Send(EventMsg{Event: e})
		}))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
