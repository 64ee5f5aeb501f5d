package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a status message while a render runs. It ends on Stop or
// when the context it was started with is done, and it leaves the line blank.
type Spinner struct {
	msg    string
	out    io.Writer
	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{}
	once   sync.Once
	mu     sync.Mutex
}

// startSpinner begins animating msg on w. Files that are not terminals, such
// as redirected stderr, get no output at all.
func startSpinner(ctx context.Context, w io.Writer, msg string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &Spinner{
		msg:    msg,
		out:    w,
		ctx:    ctx,
		cancel: cancel,
		exited: make(chan struct{}),
	}
	if !isTerminal(w) {
		close(s.exited)
		return s
	}
	go s.run()
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (s *Spinner) run() {
	defer close(s.exited)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.write("\r" + strings.Repeat(" ", len(s.msg)+4) + "\r")
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			s.write(fmt.Sprintf("\r%s %s", StyleHighlight.Render(frame), StyleDim.Render(s.msg)))
		}
	}
}

func (s *Spinner) write(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.out, line)
}

// Stop ends the animation and waits until the line is cleared. It is safe
// to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(s.cancel)
	<-s.exited
}

// Done is closed once the spinner has cleared its line.
func (s *Spinner) Done() <-chan struct{} {
	return s.exited
}
