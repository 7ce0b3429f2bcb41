// Package main implements the ophelia CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ophelia/internal/trace"
	"ophelia/internal/version"
)

// Exit codes.
const (
	exitOK          = 0
	exitDiagnostics = 1 // the program has errors
	exitFailure     = 2 // usage or I/O problem
)

// errDiagnostics is returned by commands whose input had errors; the
// diagnostics are already printed.
var errDiagnostics = errors.New("compilation failed")

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and maps the outcome to an exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, sess := newRootCmd()
	defer dumpTraceOnPanic(sess, stderr)
	root.SetArgs(rewriteLegacyArgs(args))
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	// PostRun не вызывается при ошибке, поэтому профили и трейс закрываем здесь
	sess.close()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errDiagnostics):
		return exitDiagnostics
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
}

// session holds what PersistentPreRunE started and execute must stop.
type session struct {
	cleanups []func()
	ring     *trace.RingTracer
}

func (s *session) close() {
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
	s.cleanups = nil
}

func newRootCmd() (*cobra.Command, *session) {
	root := &cobra.Command{
		Use:           "ophelia",
		Short:         "Ophelia compiler front end",
		Long:          `Ophelia checks C-like teaching-language programs and lowers them to Koopa-style IR`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show (0 = unlimited)")
	flags.Bool("cache", false, "reuse results from the on-disk cache")
	flags.String("trace", "", "write compiler trace events to file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
	flags.String("cpuprofile", "", "write CPU profile to file")
	flags.String("memprofile", "", "write heap profile to file")
	flags.String("runtime-trace", "", "write Go runtime trace to file")

	sess := &session{}
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		stopTrace, err := setupTracing(cmd, sess)
		if err != nil {
			return err
		}
		sess.cleanups = append(sess.cleanups, stopTrace)
		stopProf, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		sess.cleanups = append(sess.cleanups, stopProf)
		return nil
	}

	root.AddCommand(
		newKoopaCmd(),
		newRiscvCmd(),
		newDiagCmd(),
		newParseCmd(),
		newTokenizeCmd(),
		newBuildCmd(),
		newCleanCmd(),
		newVersionCmd(),
	)
	return root, sess
}

// rewriteLegacyArgs accepts the classic `ophelia -koopa in.sy -o out`
// invocation by turning the mode switch into a subcommand.
func rewriteLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	switch args[0] {
	case "-koopa", "-riscv":
		return append([]string{args[0][1:]}, args[1:]...)
	}
	return args
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
