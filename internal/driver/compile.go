// Package driver runs the front end over source files: parse, check,
// generate and validate, with tracing, timings and an on-disk cache.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fortio.org/safecast"

	"ophelia/internal/ast"
	"ophelia/internal/diag"
	"ophelia/internal/ir"
	"ophelia/internal/irgen"
	"ophelia/internal/observ"
	"ophelia/internal/parser"
	"ophelia/internal/sema"
	"ophelia/internal/source"
	"ophelia/internal/trace"
	"ophelia/internal/types"
)

// ErrInvalidIR means the generator produced a program that failed
// ir.Validate; it is a compiler bug, not a user error.
var ErrInvalidIR = errors.New("generated IR is invalid")

// Options configures one compilation.
type Options struct {
	MaxDiagnostics int  // 0 means unlimited
	RequireMain    bool // report SemaNoMain
	// Timings appends an ObsTimings info diagnostic with the phase report.
	Timings  bool
	Cache    *DiskCache
	Observer PhaseObserver
}

// Result is everything one compilation produced. Unit and Sema are nil
// when the result came from the cache.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Unit    *ast.CompUnit
	Sema    *sema.Result
	Bag     *diag.Bag
	Program *ir.Program // nil when the unit has errors
	Timer   *observ.Timer
	Cached  bool
}

// Ok reports whether the file compiled without errors.
func (r *Result) Ok() bool {
	return r != nil && r.Program != nil && !r.Bag.HasErrors()
}

// CompileFile loads path into a fresh FileSet and compiles it. Failing to
// read the file is an error; everything wrong inside it is a diagnostic.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	observe(opts.Observer, path, PhaseLoad, PhaseStart, 0, false)
	start := time.Now()
	id, err := fs.Load(path)
	observe(opts.Observer, path, PhaseLoad, PhaseEnd, time.Since(start), err != nil)
	if err != nil {
		return nil, err
	}
	return Compile(ctx, fs, id, opts)
}

// Compile runs the front end over one file of fs.
func Compile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*Result, error) {
	file := fs.Get(id)
	if file == nil {
		return nil, fmt.Errorf("compile: unknown file id %d", id)
	}
	res := &Result{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Timer:   observ.NewTimer(),
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "file:"+file.Path, trace.CurrentSpan(ctx).SpanID)
	defer func() {
		span.WithExtra("diagnostics", fmt.Sprint(res.Bag.Len())).End("")
	}()
	ctx = trace.WithSpan(ctx, span)

	key := CacheKey(file.Content, opts.RequireMain)
	if hit, err := opts.Cache.Load(key, res); err == nil && hit {
		res.Cached = true
		span.WithExtra("cache", "hit")
		return res, nil
	}

	err := res.run(ctx, opts)
	if opts.Timings {
		appendTimingDiagnostic(res.Bag, timingPayload{Path: file.Path, Report: res.Timer.Report()})
	}
	if err != nil {
		return res, err
	}
	// the cache is an optimisation: a failed write changes nothing
	_ = opts.Cache.Store(key, res)
	return res, nil
}

func (r *Result) run(ctx context.Context, opts Options) error {
	rep := diag.BagReporter{Bag: r.Bag}
	path := r.File.Path

	ok := r.phase(ctx, opts, PhaseParse, func(context.Context) bool {
		maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
		if err != nil {
			maxErrors = 0
		}
		pr := parser.ParseFile(r.File, parser.Options{Reporter: rep, MaxErrors: maxErrors})
		r.Unit = pr.Unit
		return pr.Errors == 0
	})
	if !ok {
		return nil
	}

	ok = r.phase(ctx, opts, PhaseSema, func(ctx context.Context) bool {
		r.Sema = sema.Check(ctx, r.Unit, sema.Options{
			Reporter:    rep,
			Types:       types.NewInterner(),
			RequireMain: opts.RequireMain,
		})
		return r.Sema.Ok()
	})
	if !ok {
		return nil
	}

	var genErr error
	r.phase(ctx, opts, PhaseIRGen, func(ctx context.Context) bool {
		r.Program, genErr = irgen.Generate(ctx, r.Unit, r.Sema)
		return genErr == nil
	})
	if genErr != nil {
		r.Program = nil
		return fmt.Errorf("%s: %w", path, genErr)
	}

	var verr error
	r.phase(ctx, opts, PhaseValidate, func(context.Context) bool {
		verr = ir.Validate(r.Program)
		return verr == nil
	})
	if verr != nil {
		diag.ReportError(rep, diag.IRInvalidOutput, source.Span{File: r.File.ID}, verr.Error()).Emit()
		r.Program = nil
		return fmt.Errorf("%s: %w: %w", path, ErrInvalidIR, verr)
	}
	return nil
}

// phase runs fn under a trace span, a timer entry and observer events.
// fn gets a context whose current span is the phase, and reports
// whether the phase succeeded.
func (r *Result) phase(ctx context.Context, opts Options, name string, fn func(ctx context.Context) bool) bool {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, name, trace.CurrentSpan(ctx).SpanID)
	idx := r.Timer.Begin(name)
	observe(opts.Observer, r.File.Path, name, PhaseStart, 0, false)
	start := time.Now()

	ok := fn(trace.WithSpan(ctx, span))

	elapsed := time.Since(start)
	note := ""
	if !ok {
		note = "failed"
	}
	r.Timer.End(idx, note)
	span.End(note)
	observe(opts.Observer, r.File.Path, name, PhaseEnd, elapsed, !ok)
	return ok
}

func observe(obs PhaseObserver, file, name string, st PhaseStatus, elapsed time.Duration, failed bool) {
	if obs == nil {
		return
	}
	obs(PhaseEvent{File: file, Name: name, Status: st, Elapsed: elapsed, Failed: failed})
}
