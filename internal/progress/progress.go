// Package progress carries structured progress events out of the batch and
// loading code so the algorithms themselves never print anything.
package progress

import "sync"

// Kind identifies what happened.
type Kind string

const (
	BatchStarted    Kind = "batch_started"
	NoInput         Kind = "no_input"
	DocumentStarted Kind = "document_started"
	DocumentCopied  Kind = "document_copied"
	ChunkWritten    Kind = "chunk_written"
	DocumentDone    Kind = "document_done"
	DocumentFailed  Kind = "document_failed"
	DocumentSkipped Kind = "document_skipped"
	BatchDone       Kind = "batch_done"
	DocumentsLoaded Kind = "documents_loaded"
)

// Event is one progress notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind     Kind
	Document string
	Units    int
	Part     int
	Total    int
	Path     string
	Message  string
	Err      error
}

// Observer receives progress events.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// Nop discards every event.
var Nop Observer = ObserverFunc(func(Event) {})

// Recorder keeps every event it sees.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfKind returns the recorded events of one kind.
func (r *Recorder) OfKind(kind Kind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Multi fans events out to several observers.
func Multi(observers ...Observer) Observer {
	return ObserverFunc(func(e Event) {
		for _, o := range observers {
			if o != nil {
				o.Observe(e)
			}
		}
	})
}
