package ui

import (
	"fmt"
	"io"
	"sync"

	"ophelia/internal/buildpipeline"
)

// LineSink prints one line per finished file; used when stdout is not a terminal.
type LineSink struct {
	mu sync.Mutex
	W  io.Writer
}

func (s *LineSink) OnEvent(ev buildpipeline.Event) {
	if ev.File == "" {
		return
	}
	var line string
	switch ev.Status {
	case buildpipeline.StatusDone:
		line = fmt.Sprintf("ok    %s (%s)\n", ev.File, ev.Elapsed)
	case buildpipeline.StatusError:
		msg := "failed"
		if ev.Err != nil {
			msg = ev.Err.Error()
		}
		line = fmt.Sprintf("FAIL  %s [%s]: %s\n", ev.File, ev.Stage, msg)
	default:
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.W, line)
}
