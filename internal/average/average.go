package average

import (
	"errors"
	"math"
	"sort"

	"github.com/uxbench/uxbench/internal/report"
)

// ErrNoValidReports is returned when none of the inputs can be averaged.
var ErrNoValidReports = errors.New("no valid reports to average")

// Rounding applied to an averaged value.
type Rounding func(float64) float64

var (
	RoundInt Rounding = math.Round
	Round2   Rounding = report.Round2
)

// field is one numeric report field that is averaged arithmetically.
// get reports false when the run does not carry the field.
type field struct {
	name  string
	get   func(*report.Report) (float64, bool)
	set   func(*report.Report, float64)
	round Rounding
}

func intField(name string, ptr func(*report.Report) *int) field {
	return field{
		name:  name,
		get:   func(r *report.Report) (float64, bool) { return float64(*ptr(r)), true },
		set:   func(r *report.Report, v float64) { *ptr(r) = int(v) },
		round: RoundInt,
	}
}

func floatField(name string, ptr func(*report.Report) *float64, round Rounding) field {
	return field{
		name:  name,
		get:   func(r *report.Report) (float64, bool) { return *ptr(r), true },
		set:   func(r *report.Report, v float64) { *ptr(r) = v },
		round: round,
	}
}

func optIntField(name string, ptr func(*report.Report) **int) field {
	return field{
		name: name,
		get: func(r *report.Report) (float64, bool) {
			if p := *ptr(r); p != nil {
				return float64(*p), true
			}
			return 0, false
		},
		set: func(r *report.Report, v float64) {
			n := int(v)
			*ptr(r) = &n
		},
		round: RoundInt,
	}
}

func optFloatField(name string, ptr func(*report.Report) **float64, round Rounding) field {
	return field{
		name: name,
		get: func(r *report.Report) (float64, bool) {
			if p := *ptr(r); p != nil {
				return *p, true
			}
			return 0, false
		},
		set: func(r *report.Report, v float64) {
			*ptr(r) = &v
		},
		round: round,
	}
}

// averagedFields lists every numeric field merged across runs.
var averagedFields = []field{
	intField("metadata.duration_ms", func(r *report.Report) *int { return &r.Metadata.DurationMS }),

	intField("click_count.total", func(r *report.Report) *int { return &r.Metrics.ClickCount.Total }),
	intField("click_count.productive", func(r *report.Report) *int { return &r.Metrics.ClickCount.Productive }),
	intField("click_count.ceremonial", func(r *report.Report) *int { return &r.Metrics.ClickCount.Ceremonial }),
	intField("click_count.wasted", func(r *report.Report) *int { return &r.Metrics.ClickCount.Wasted }),

	intField("time_on_task.total_ms", func(r *report.Report) *int { return &r.Metrics.TimeOnTask.TotalMS }),
	optIntField("time_on_task.idle_ms", func(r *report.Report) **int { return &r.Metrics.TimeOnTask.IdleMS }),
	optIntField("time_on_task.active_ms", func(r *report.Report) **int { return &r.Metrics.TimeOnTask.ActiveMS }),
	optIntField("time_on_task.longest_idle_ms", func(r *report.Report) **int { return &r.Metrics.TimeOnTask.LongestIdleMS }),

	floatField("fitts.cumulative_id", func(r *report.Report) *float64 { return &r.Metrics.Fitts.CumulativeID }, Round2),
	floatField("fitts.average_id", func(r *report.Report) *float64 { return &r.Metrics.Fitts.AverageID }, Round2),
	floatField("fitts.max_id", func(r *report.Report) *float64 { return &r.Metrics.Fitts.MaxID }, Round2),
	floatField("fitts.max_id_distance_px", func(r *report.Report) *float64 { return &r.Metrics.Fitts.MaxIDDistancePx }, Round2),

	intField("context_switches.total", func(r *report.Report) *int { return &r.Metrics.ContextSwitches.Total }),
	floatField("context_switches.ratio", func(r *report.Report) *float64 { return &r.Metrics.ContextSwitches.Ratio }, Round2),
	optIntField("context_switches.longest_keyboard_streak", func(r *report.Report) **int { return &r.Metrics.ContextSwitches.LongestKeyboardStreak }),
	optIntField("context_switches.longest_mouse_streak", func(r *report.Report) **int { return &r.Metrics.ContextSwitches.LongestMouseStreak }),

	intField("shortcut_coverage.shortcuts_used", func(r *report.Report) *int { return &r.Metrics.ShortcutCoverage.ShortcutsUsed }),

	intField("typing_ratio.free_text_inputs", func(r *report.Report) *int { return &r.Metrics.TypingRatio.FreeTextInputs }),
	intField("typing_ratio.constrained_inputs", func(r *report.Report) *int { return &r.Metrics.TypingRatio.ConstrainedInputs }),
	floatField("typing_ratio.ratio", func(r *report.Report) *float64 { return &r.Metrics.TypingRatio.Ratio }, Round2),

	floatField("scanning_distance.cumulative_px", func(r *report.Report) *float64 { return &r.Metrics.ScanningDistance.CumulativePx }, Round2),
	floatField("scanning_distance.average_px", func(r *report.Report) *float64 { return &r.Metrics.ScanningDistance.AveragePx }, Round2),
	floatField("scanning_distance.max_single_px", func(r *report.Report) *float64 { return &r.Metrics.ScanningDistance.MaxSinglePx }, Round2),

	floatField("scroll_distance.total_px", func(r *report.Report) *float64 { return &r.Metrics.ScrollDistance.TotalPx }, Round2),
	optFloatField("scroll_distance.page_scroll_px", func(r *report.Report) **float64 { return &r.Metrics.ScrollDistance.PageScrollPx }, Round2),
	optFloatField("scroll_distance.container_scroll_px", func(r *report.Report) **float64 { return &r.Metrics.ScrollDistance.ContainerScrollPx }, Round2),
	optFloatField("scroll_distance.total_horizontal_px", func(r *report.Report) **float64 { return &r.Metrics.ScrollDistance.TotalHorizontalPx }, Round2),
	optIntField("scroll_distance.scroll_events", func(r *report.Report) **int { return &r.Metrics.ScrollDistance.ScrollEvents }),

	floatField("mouse_travel.total_px", func(r *report.Report) *float64 { return &r.Metrics.MouseTravel.TotalPx }, Round2),
	floatField("mouse_travel.idle_travel_px", func(r *report.Report) *float64 { return &r.Metrics.MouseTravel.IdleTravelPx }, Round2),
	intField("mouse_travel.move_events", func(r *report.Report) *int { return &r.Metrics.MouseTravel.MoveEvents }),
	optFloatField("mouse_travel.path_efficiency", func(r *report.Report) **float64 { return &r.Metrics.MouseTravel.PathEfficiency }, Round2),

	floatField("composite_score", func(r *report.Report) *float64 { return &r.Metrics.CompositeScore }, Round2),
}

// Valid reports whether r can take part in an average.
func Valid(r *report.Report) bool {
	return r != nil && r.Metrics.ClickCount.WellFormed()
}

// Reports merges finished runs of the same task into one report. The inputs
// are never modified.
func Reports(reports []*report.Report) (*report.Report, error) {
	var valid []*report.Report
	for _, r := range reports {
		if Valid(r) {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidReports
	}

	out := valid[0].Clone()
	if out == nil {
		return nil, ErrNoValidReports
	}

	for _, f := range averagedFields {
		sum, n := 0.0, 0
		for _, r := range valid {
			if v, ok := f.get(r); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			continue
		}
		f.set(out, f.round(sum/float64(n)))
	}

	mergeFitts(out, valid)
	mergeScanning(out, valid)
	mergeTimeOnTask(out, valid)
	mergeDetails(out, valid)
	out.Metrics.TypingRatio.FreeTextFields = unionFreeText(valid)
	out.ActionLog = []report.ActionLogEntry{}

	runCount := len(valid)
	averaged := true
	out.Metadata.RunCount = &runCount
	out.Metadata.Averaged = &averaged

	return out, nil
}

func mergeFitts(out *report.Report, runs []*report.Report) {
	var hardest []report.FittsTarget
	best := runs[0]
	for _, r := range runs {
		hardest = append(hardest, r.Metrics.Fitts.Top3Hardest...)
		if r.Metrics.Fitts.MaxID > best.Metrics.Fitts.MaxID {
			best = r
		}
	}
	sort.SliceStable(hardest, func(i, j int) bool { return hardest[i].ID > hardest[j].ID })
	if len(hardest) > 3 {
		hardest = hardest[:3]
	}
	if hardest == nil {
		hardest = []report.FittsTarget{}
	}

	out.Metrics.Fitts.Top3Hardest = hardest
	out.Metrics.Fitts.MaxIDElement = best.Metrics.Fitts.MaxIDElement
	out.Metrics.Fitts.MaxIDTargetSize = best.Metrics.Fitts.MaxIDTargetSize
}

func mergeScanning(out *report.Report, runs []*report.Report) {
	best := runs[0]
	for _, r := range runs {
		if r.Metrics.ScanningDistance.MaxSinglePx > best.Metrics.ScanningDistance.MaxSinglePx {
			best = r
		}
	}
	out.Metrics.ScanningDistance.MaxSingleFrom = cloneString(best.Metrics.ScanningDistance.MaxSingleFrom)
	out.Metrics.ScanningDistance.MaxSingleTo = cloneString(best.Metrics.ScanningDistance.MaxSingleTo)
}

func mergeTimeOnTask(out *report.Report, runs []*report.Report) {
	var (
		after   *string
		longest = -1
	)
	for _, r := range runs {
		tot := r.Metrics.TimeOnTask
		if tot.LongestIdleMS != nil && *tot.LongestIdleMS > longest {
			longest = *tot.LongestIdleMS
			after = tot.LongestIdleAfter
		}
	}
	out.Metrics.TimeOnTask.LongestIdleAfter = cloneString(after)
	// Individual gaps belong to a single run.
	out.Metrics.TimeOnTask.IdleGaps = []report.IdleGap{}
}

func mergeDetails(out *report.Report, runs []*report.Report) {
	var ceremonial, wasted []report.ClickContextDetail
	for _, r := range runs {
		ceremonial = append(ceremonial, r.Metrics.ClickCount.CeremonialDetails...)
		wasted = append(wasted, r.Metrics.ClickCount.WastedDetails...)
	}
	out.Metrics.ClickCount.CeremonialDetails = dedupeDetails(ceremonial)
	out.Metrics.ClickCount.WastedDetails = dedupeDetails(wasted)
}

func dedupeDetails(details []report.ClickContextDetail) []report.ClickContextDetail {
	seen := make(map[report.ClickContextDetail]bool, len(details))
	out := make([]report.ClickContextDetail, 0, len(details))
	for _, d := range details {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

func unionFreeText(runs []*report.Report) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range runs {
		for _, label := range r.Metrics.TypingRatio.FreeTextFields {
			if seen[label] {
				continue
			}
			seen[label] = true
			out = append(out, label)
		}
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
