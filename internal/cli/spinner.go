package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/seqdist/pkg/pipeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a one-line status on w. The status text can change while
// it runs. It stops on Stop or when the parent context ends.
type spinner struct {
	w      io.Writer
	parent context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	msg   string
	width int // widest line drawn so far

	stopOnce sync.Once
	stopped  chan struct{}
}

// startSpinner draws msg on w until the spinner is stopped.
func startSpinner(ctx context.Context, w io.Writer, msg string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:       w,
		parent:  ctx,
		cancel:  cancel,
		msg:     msg,
		stopped: make(chan struct{}),
	}
	go s.run(sctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.msg)
	s.width = max(s.width, len(s.msg)+2)
	fmt.Fprintf(s.w, "\r%s", line)
}

// SetMessage replaces the status text from the next frame on.
func (s *spinner) SetMessage(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Message returns the current status text.
func (s *spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msg
}

// Stop halts the animation and erases the line. It is safe to call more
// than once.
func (s *spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.stopped
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		}
	})
}

// Fail stops the spinner and prints msg as an error.
func (s *spinner) Fail(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Interrupted reports whether the parent context ended.
func (s *spinner) Interrupted() bool {
	return s.parent.Err() != nil
}

// batchTally counts finished pairs of a batch for the progress line.
// Callers serialize calls to add.
type batchTally struct {
	total  int
	done   int
	failed int
}

// add records a finished item and returns the new status text.
func (t *batchTally) add(it pipeline.BatchItem) string {
	t.done++
	if it.Err != nil {
		t.failed++
	}
	return t.status()
}

func (t *batchTally) status() string {
	s := fmt.Sprintf("Measured %d/%d pairs", t.done, t.total)
	if t.failed > 0 {
		s += fmt.Sprintf(" (%d failed)", t.failed)
	}
	return s
}
