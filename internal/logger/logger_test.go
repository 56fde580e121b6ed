package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture redirects logger output to a buffer and restores the
// defaults when the test ends.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	capture(t)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebugFormatsPipelineMessage(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Debug("Appending %d chunks from %s", 3, "notion/2024-06-10_invest.md")

	assert.Equal(t,
		"[DEBUG] Appending 3 chunks from notion/2024-06-10_invest.md\n",
		buf.String())
}

func TestDebugSilentWhenNotVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Debug("skipped unchanged file")

	assert.Zero(t, buf.Len())
}

func TestSectionHeaders(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Section("Ingest")
	Section("Retrieval")

	require.Contains(t, buf.String(), "\n=== Ingest ===\n")
	assert.Contains(t, buf.String(), "\n=== Retrieval ===\n")
}

func TestInfoAndWarnPrefixes(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Info("corpus tail scan bounded to %d lines", 4000)
	Warn("audit log failed: %v", os.ErrClosed)

	assert.Contains(t, buf.String(), "[INFO] corpus tail scan bounded to 4000 lines\n")
	assert.Contains(t, buf.String(), "[WARN] audit log failed: file already closed\n")
}

func TestConcurrentToggleAndLog(t *testing.T) {
	capture(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(true)
			Debug("worker %d", n)
			IsVerbose()
			SetVerbose(false)
		}(i)
	}
	wg.Wait()
}
