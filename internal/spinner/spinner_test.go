package spinner

import (
	"bytes"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStart_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	stop := Start(&buf, Static("loading"))
	time.Sleep(3 * Interval)
	stop()
	assert.Empty(t, buf.String())
}

func TestStart_DrawsAndClears(t *testing.T) {
	var buf syncBuffer
	var n atomic.Int32
	stop := start(&buf, func() string {
		return "item " + strings.Repeat("x", int(n.Add(1)%3))
	})
	assert.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "item")
	}, time.Second, 10*time.Millisecond)
	stop()
	stop() // second stop is a no-op

	out := buf.String()
	assert.Contains(t, out, frames[0]+" item")
	assert.True(t, strings.HasSuffix(out, "\r"), "line is cleared on stop")
}

func TestEnabled(t *testing.T) {
	assert.False(t, Enabled(&bytes.Buffer{}))
}
