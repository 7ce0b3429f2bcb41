package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// Phase names passed to observers, in pipeline order.
const (
	PhaseLoad     = "load"
	PhaseParse    = "parse"
	PhaseSema     = "sema"
	PhaseIRGen    = "irgen"
	PhaseValidate = "validate"
)

// PhaseEvent describes a phase boundary of one file.
type PhaseEvent struct {
	File    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Failed  bool // PhaseEnd only: the phase produced errors
}

// PhaseObserver receives phase events. CompileFiles calls it from several
// goroutines at once.
type PhaseObserver func(PhaseEvent)
