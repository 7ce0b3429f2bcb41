package buildpipeline

import (
	"fmt"
	"sync"
	"time"
)

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageParse covers loading and parsing.
	StageParse Stage = "parse"
	// StageCheck is semantic analysis.
	StageCheck Stage = "check"
	// StageGenerate covers IR generation and validation.
	StageGenerate Stage = "generate"
	// StageEmit writes the output file.
	StageEmit Stage = "emit"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{StageParse, StageCheck, StageGenerate, StageEmit}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the overall pipeline when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Build calls it from several
// goroutines at once.
type ProgressSink interface {
	OnEvent(Event)
}

// EmitFormat selects what Build writes per file.
type EmitFormat string

const (
	// EmitKoopa writes the textual IR.
	EmitKoopa EmitFormat = "koopa"
	// EmitMsgpack writes the binary IR encoding.
	EmitMsgpack EmitFormat = "msgpack"
)

// ParseEmitFormat validates a flag or manifest value.
func ParseEmitFormat(s string) (EmitFormat, error) {
	switch EmitFormat(s) {
	case "", EmitKoopa:
		return EmitKoopa, nil
	case EmitMsgpack:
		return EmitMsgpack, nil
	}
	return "", fmt.Errorf("unsupported emit format %q (supported: koopa, msgpack)", s)
}

// Ext is the output file extension.
func (f EmitFormat) Ext() string {
	if f == EmitMsgpack {
		return ".mp"
	}
	return ".koopa"
}

// Timings holds stage durations summed over all files.
type Timings struct {
	mu     sync.Mutex
	stages map[Stage]time.Duration
}

// Add accumulates dur for stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] += dur
}

// Has reports whether a duration for stage is recorded.
func (t *Timings) Has(stage Stage) bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t *Timings) Duration(stage Stage) time.Duration {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t *Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.Duration(stage)
	}
	return total
}
