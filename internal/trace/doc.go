// Package trace records what the compiler is doing and how long it takes.
//
// Tracing is off unless requested on the command line:
//
//	ophelia koopa --trace=- --trace-level=detail prog.sy
//
// A Tracer receives Events. StreamTracer writes them as they arrive,
// RingTracer keeps the most recent ones for a dump after a crash, and
// MultiTracer fans out to both. When tracing is disabled the Nop tracer
// is used and Begin returns a span that does nothing.
//
// Scopes order events from coarse to fine:
//
//   - ScopeDriver: one compiler invocation, one file
//   - ScopePass: parse, sema_check, irgen, codegen
//   - ScopeFunc: one function inside a pass
//   - ScopeNode: single declarations and statements
//
// The level decides how deep tracing goes; LevelPhase stops at passes,
// LevelDetail adds functions and LevelDebug emits everything.
//
// The tracer and the current span travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.CurrentSpan(ctx).SpanID)
//	defer span.End("")
package trace
