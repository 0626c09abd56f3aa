package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// progress shows a spinner on stderr while a scan runs. It is a no-op when
// stderr is not a terminal.
type progress struct {
	sp  *spinner.Spinner
	msg string
}

// isTerminal reports whether stderr is attached to a terminal. Override in tests.
var isTerminal = func() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func startProgress(msg string) *progress {
	p := &progress{msg: msg}
	if !isTerminal() {
		return p
	}

	p.sp = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	p.sp.Suffix = " " + msg
	p.sp.Start()
	return p
}

// update is safe to call from several goroutines.
func (p *progress) update(done, total int) {
	if p.sp == nil {
		return
	}
	p.sp.Lock()
	p.sp.Suffix = fmt.Sprintf(" %s (%d/%d)", p.msg, done, total)
	p.sp.Unlock()
}

func (p *progress) stop() {
	if p.sp != nil {
		p.sp.Stop()
	}
}
