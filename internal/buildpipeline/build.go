// Package buildpipeline compiles a set of files and writes their outputs,
// reporting per-file progress by stage.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ophelia/internal/driver"
	"ophelia/internal/ir"
)

// ErrDiagnostics is returned by Build when at least one file has errors.
var ErrDiagnostics = errors.New("diagnostics reported errors")

// Request configures a build.
type Request struct {
	Files []string
	// Root is the directory output paths are made relative to; "" keeps
	// only the base name.
	Root     string
	OutDir   string // "" compiles without writing
	Emit     EmitFormat
	Jobs     int
	Progress ProgressSink
	Options  driver.Options
}

// FileOutput is the outcome for one input file.
type FileOutput struct {
	Path   string
	Output string // written file, "" when nothing was written
	Result *driver.Result
	Err    error
}

// Result captures build artefacts and timings.
type Result struct {
	Files   []FileOutput
	Timings *Timings
}

// Failed counts files that did not compile or could not be written.
func (r Result) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil || !f.Result.Ok() {
			n++
		}
	}
	return n
}

// Build compiles req.Files in parallel and writes one output per file.
// It returns ErrDiagnostics when some file has errors and a wrapped I/O
// error when an output could not be written; Result is filled either way.
func Build(ctx context.Context, req *Request) (Result, error) {
	result := Result{Timings: &Timings{}}
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	emit, err := ParseEmitFormat(string(req.Emit))
	if err != nil {
		return result, err
	}

	// события фаз приходят с нормализованным путём файла
	paths := make([]string, len(req.Files))
	for i, f := range req.Files {
		paths[i] = filepath.ToSlash(filepath.Clean(f))
	}
	emitQueued(req.Progress, paths)
	obs := &phaseObserver{sink: req.Progress, timings: result.Timings, next: req.Options.Observer, failed: make(map[string]bool)}
	opts := req.Options
	opts.Observer = obs.OnPhase

	files, err := driver.CompileFiles(ctx, paths, opts, req.Jobs)
	if err != nil {
		return result, err
	}

	var errs []error
	failed := false
	for _, fr := range files {
		out := FileOutput{Path: fr.Path, Result: fr.Result, Err: fr.Err}
		switch {
		case fr.Err != nil:
			stage := StageParse
			if fr.Result != nil {
				stage = StageGenerate
			}
			emitFile(req.Progress, fr.Path, stage, StatusError, fr.Err, 0)
			errs = append(errs, fr.Err)
		case !fr.Result.Ok():
			failed = true
			if !obs.reported(fr.Path) {
				// результат из кэша: фаз не было
				emitFile(req.Progress, fr.Path, StageCheck, StatusError, fmt.Errorf("%d diagnostic(s)", fr.Result.Bag.Len()), 0)
			}
		case req.OutDir == "":
			emitFile(req.Progress, fr.Path, StageGenerate, StatusDone, nil, 0)
		default:
			out.Output, out.Err = writeOutput(req, emit, fr, result.Timings)
			if out.Err != nil {
				errs = append(errs, out.Err)
			}
		}
		result.Files = append(result.Files, out)
	}
	if len(errs) > 0 {
		return result, errors.Join(errs...)
	}
	if failed {
		return result, ErrDiagnostics
	}
	return result, nil
}

func writeOutput(req *Request, emit EmitFormat, fr driver.FileResult, timings *Timings) (string, error) {
	start := time.Now()
	emitFile(req.Progress, fr.Path, StageEmit, StatusWorking, nil, 0)
	target := OutputPath(req.Root, req.OutDir, fr.Path, emit)
	err := writeProgram(target, emit, fr.Result.Program)
	elapsed := time.Since(start)
	timings.Add(StageEmit, elapsed)
	if err != nil {
		err = fmt.Errorf("failed to write %s: %w", target, err)
		emitFile(req.Progress, fr.Path, StageEmit, StatusError, err, elapsed)
		return "", err
	}
	emitFile(req.Progress, fr.Path, StageEmit, StatusDone, nil, elapsed)
	return target, nil
}

// OutputPath maps a source file to its output under outDir, keeping the
// directory layout relative to root.
func OutputPath(root, outDir, src string, emit EmitFormat) string {
	rel := filepath.Base(src)
	if root != "" {
		if r, err := filepath.Rel(root, src); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, driver.SourceExt)+emit.Ext())
}

func writeProgram(target string, emit EmitFormat, prog *ir.Program) (err error) {
	if prog == nil {
		return fmt.Errorf("no program")
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return err
	}
	// #nosec G304 -- path is derived from build output configuration
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if emit == EmitMsgpack {
		return ir.Encode(f, prog)
	}
	_, err = f.WriteString(prog.String())
	return err
}

type phaseObserver struct {
	sink    ProgressSink
	timings *Timings
	next    driver.PhaseObserver

	mu     sync.Mutex
	failed map[string]bool
}

func (p *phaseObserver) reported(file string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed[file]
}

func stageOf(phase string) Stage {
	switch phase {
	case driver.PhaseLoad, driver.PhaseParse:
		return StageParse
	case driver.PhaseSema:
		return StageCheck
	default:
		return StageGenerate
	}
}

// OnPhase maps compiler phase events of one file onto stage events.
func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	if p.next != nil {
		p.next(ev)
	}
	stage := stageOf(ev.Name)
	switch ev.Status {
	case driver.PhaseStart:
		emitFile(p.sink, ev.File, stage, StatusWorking, nil, 0)
	case driver.PhaseEnd:
		p.timings.Add(stage, ev.Elapsed)
		if ev.Failed {
			p.mu.Lock()
			p.failed[ev.File] = true
			p.mu.Unlock()
			emitFile(p.sink, ev.File, stage, StatusError, fmt.Errorf("%s failed", ev.Name), ev.Elapsed)
		}
	}
}

func emitFile(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageParse, Status: StatusQueued})
	}
}
