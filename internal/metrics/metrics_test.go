package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docbrief/internal/progress"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObservePrompt(t *testing.T) {
	m := New(time.Hour)
	m.ObservePrompt("meeting", 42000, 15*time.Millisecond)
	m.ObservePrompt("meeting", 1000, 5*time.Millisecond)
	m.ObservePrompt("panel", 500, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PromptsGenerated.WithLabelValues("meeting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PromptsGenerated.WithLabelValues("panel")))
	assert.Equal(t, 3, m.PromptLatency.Snapshot().Count)
	assert.Equal(t, 2, m.PromptLatency.ByKind()["meeting"].Count)
}

func TestMetrics_Handler(t *testing.T) {
	m := New(time.Hour)
	m.DocumentsLoaded.Set(4)
	m.ObserveRequest("GET", "/api/documents", 200, 3*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "docbrief_documents_loaded 4")
	assert.True(t, strings.Contains(body, `docbrief_http_requests_total{code="200",method="GET",route="/api/documents"} 1`))
}

func TestMetrics_ObserveProgress(t *testing.T) {
	m := New(time.Hour)
	m.Observe(progress.Event{Kind: progress.ChunkWritten, Part: 1, Total: 2})
	m.Observe(progress.Event{Kind: progress.ChunkWritten, Part: 2, Total: 2})
	m.Observe(progress.Event{Kind: progress.DocumentCopied})
	m.Observe(progress.Event{Kind: progress.DocumentFailed})
	m.Observe(progress.Event{Kind: progress.DocumentsLoaded, Units: 7})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ChunksWritten))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.DocumentsLoaded))
}
