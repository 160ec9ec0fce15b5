package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrz1836/tapctl/internal/tap"
)

// SummaryKind classifies the Result Aggregator's (C6) final report, which
// is computed purely from parser state — independent of the child's exit
// status classified by Driver.Run.
type SummaryKind int

const (
	SummaryOK SummaryKind = iota
	SummaryDubious
	SummarySkippedAll
	SummaryBailedOut
	SummaryNoPlan
	SummaryExtraTests
)

// Summary is the C6 report: a priority-ordered verdict plus the compact
// missing/failed range rendering spec §4.6 describes.
type Summary struct {
	Kind          SummaryKind
	Reason        string // skip_all reason, or bailout message
	MissingRanges string
	FailedRanges  string
	SkippedCount  int
}

// Text renders the human-readable summary line used by the CLI and the
// batch runner's per-test report.
func (s Summary) Text() string {
	switch s.Kind {
	case SummarySkippedAll:
		if s.Reason != "" {
			return fmt.Sprintf("skipped (%s)", s.Reason)
		}
		return "skipped"
	case SummaryBailedOut:
		if s.Reason != "" {
			return fmt.Sprintf("Bailed Out! %s", s.Reason)
		}
		return "Bailed Out!"
	case SummaryNoPlan:
		return "No Plan"
	case SummaryExtraTests:
		return "Extra Tests"
	}

	var b strings.Builder
	if s.MissingRanges != "" {
		fmt.Fprintf(&b, "MISSED %s", s.MissingRanges)
	}
	if s.FailedRanges != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "FAILED %s", s.FailedRanges)
	}
	if b.Len() == 0 {
		if s.Kind == SummaryDubious {
			b.WriteString("dubious")
		} else {
			b.WriteString("ok")
		}
	}
	if s.SkippedCount > 0 {
		fmt.Fprintf(&b, " (skipped %d tests)", s.SkippedCount)
	}
	return b.String()
}

// Summarize implements C6's priority chain (spec §4.6).
func Summarize(st *tap.State) Summary {
	if st.SkipAll {
		return Summary{Kind: SummarySkippedAll, Reason: st.SkipAllReason}
	}
	if st.Bailed {
		return Summary{Kind: SummaryBailedOut, Reason: st.BailoutMessage}
	}
	if !st.PlanSet() {
		return Summary{Kind: SummaryNoPlan}
	}
	if st.TestsRun > st.Plan {
		return Summary{Kind: SummaryExtraTests}
	}

	missing := collectRanges(st, st.Plan, tap.Invalid)
	failed := collectRanges(st, st.Plan, tap.NotOk)

	kind := SummaryOK
	if missing == "" && failed == "" && (st.TodoPassed > 0 || st.SkipFailed > 0) {
		kind = SummaryDubious
	}

	return Summary{
		Kind:          kind,
		MissingRanges: missing,
		FailedRanges:  failed,
		SkippedCount:  st.Skipped,
	}
}

// collectRanges walks indices 1..upper and renders contiguous runs of want
// as a comma-joined range string, per spec §4.6's rendering contract.
func collectRanges(st *tap.State, upper int, want tap.ResultType) string {
	var runs []string
	i := 1
	for i <= upper {
		if st.Result(i) != want {
			i++
			continue
		}
		start := i
		for i <= upper && st.Result(i) == want {
			i++
		}
		end := i - 1
		if end > start {
			runs = append(runs, strconv.Itoa(start)+"-"+strconv.Itoa(end))
		} else {
			runs = append(runs, strconv.Itoa(start))
		}
	}
	return strings.Join(runs, ", ")
}

// TruncateRanges applies an optional output width limit to an
// already-rendered range string, per spec §4.6: truncate with ", ...".
func TruncateRanges(rendered string, width int) string {
	if width <= 0 || len(rendered) <= width {
		return rendered
	}
	const suffix = ", ..."
	cut := width - len(suffix)
	if cut < 0 {
		cut = 0
	}
	// Back off to the last complete range entry within the budget.
	truncated := rendered[:cut]
	if idx := strings.LastIndex(truncated, ", "); idx >= 0 {
		truncated = truncated[:idx]
	}
	return truncated + suffix
}
