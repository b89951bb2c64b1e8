package metrics

import "github.com/dgallion1/docbrief/internal/progress"

// Observe implements progress.Observer.
func (m *Metrics) Observe(e progress.Event) {
	switch e.Kind {
	case progress.ChunkWritten, progress.DocumentCopied:
		m.ChunksWritten.Inc()
	case progress.DocumentsLoaded:
		m.DocumentsLoaded.Set(float64(e.Units))
	}
}
