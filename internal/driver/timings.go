package driver

import (
	"encoding/json"
	"fmt"

	"ophelia/internal/diag"
	"ophelia/internal/observ"
)

type timingPayload struct {
	Path   string
	Report observ.Report
}

// MarshalJSON flattens the report next to the path.
func (p timingPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string               `json:"kind"`
		Path    string               `json:"path,omitempty"`
		TotalMS float64              `json:"total_ms"`
		Phases  []observ.PhaseReport `json:"phases"`
	}{"pipeline", p.Path, p.Report.TotalMS, p.Report.Phases})
}

// appendTimingDiagnostic adds the phase report as an info diagnostic whose
// note carries the JSON form. It bypasses the bag limit: timings were
// asked for explicitly.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg := fmt.Sprintf("timings: total %.2f ms", payload.Report.TotalMS)
	if payload.Path != "" {
		msg += " for " + payload.Path
	}
	entry := diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  msg,
		Notes:    []diag.Note{{Msg: string(data)}},
	}
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}

// TimingReport extracts the phase report appended by Options.Timings.
func TimingReport(bag *diag.Bag) (observ.Report, bool) {
	for _, d := range bag.Items() {
		if d.Code != diag.ObsTimings || len(d.Notes) == 0 {
			continue
		}
		var rep observ.Report
		if err := json.Unmarshal([]byte(d.Notes[0].Msg), &rep); err == nil {
			return rep, true
		}
	}
	return observ.Report{}, false
}
