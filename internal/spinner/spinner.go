// Package spinner shows an animated status line while a long command runs.
package spinner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Interval is the time between frames.
var Interval = 80 * time.Millisecond

// Enabled reports whether w is a terminal worth animating.
func Enabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start displays an animated spinner on w. status is called on every frame,
// so it may report progress. Call the returned function to stop the
// spinner and clear the line. When w is not a terminal nothing is drawn.
func Start(w io.Writer, status func() string) (stop func()) {
	if !Enabled(w) {
		return func() {}
	}
	return start(w, status)
}

func start(w io.Writer, status func() string) (stop func()) {
	done := make(chan struct{})
	cleared := make(chan struct{})
	var stopOnce sync.Once
	go func() {
		ticker := time.NewTicker(Interval)
		defer ticker.Stop()
		width := 0
		for i := 0; ; i++ {
			select {
			case <-done:
				fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", width)) //nolint:errcheck
				close(cleared)
				return
			case <-ticker.C:
				line := frames[i%len(frames)] + " " + status()
				// pad over a longer previous line
				if n := runewidth.StringWidth(line); n < width {
					line += strings.Repeat(" ", width-n)
				} else {
					width = n
				}
				fmt.Fprintf(w, "\r%s", line) //nolint:errcheck
			}
		}
	}()
	return func() {
		stopOnce.Do(func() {
			close(done)
		})
		<-cleared
	}
}

// Static returns a status func that always reports message.
func Static(message string) func() string {
	return func() string { return message }
}
