package report

import (
	"encoding/json"
	"time"
)

const (
	SchemaVersion = "1.0"
	DefaultSource = "uxbench-recorder"

	FittsFormula    = "shannon"
	ScanningMethod  = "euclidean"
	DefaultLogLimit = 500
)

// Report is the finalized efficiency report exchanged with comparison tools.
type Report struct {
	SchemaVersion string           `json:"schema_version"`
	Source        string           `json:"source"`
	Metadata      Metadata         `json:"metadata"`
	Metrics       Metrics          `json:"metrics"`
	ActionLog     []ActionLogEntry `json:"action_log"`
}

type Metadata struct {
	SessionID     string    `json:"session_id,omitempty"`
	RecordingName string    `json:"recording_name"`
	Product       string    `json:"product"`
	Task          string    `json:"task"`
	URL           string    `json:"url"`
	Timestamp     time.Time `json:"timestamp"`
	DurationMS    int       `json:"duration_ms"`
	Browser       string    `json:"browser"`
	OS            string    `json:"os,omitempty"`
	SourceVersion string    `json:"source_version"`
	Operator      string    `json:"operator"`
	RunCount      *int      `json:"run_count,omitempty"`
	Averaged      *bool     `json:"averaged,omitempty"`
}

type Metrics struct {
	ClickCount       ClickCount       `json:"click_count"`
	TimeOnTask       TimeOnTask       `json:"time_on_task"`
	Fitts            Fitts            `json:"fitts"`
	ContextSwitches  ContextSwitches  `json:"context_switches"`
	ShortcutCoverage ShortcutCoverage `json:"shortcut_coverage"`
	TypingRatio      TypingRatio      `json:"typing_ratio"`
	ScanningDistance ScanningDistance `json:"scanning_distance"`
	ScrollDistance   ScrollDistance   `json:"scroll_distance"`
	MouseTravel      MouseTravel      `json:"mouse_travel"`
	CompositeScore   float64          `json:"composite_score"`
}

type ClickCount struct {
	Total             int                  `json:"total"`
	Productive        int                  `json:"productive"`
	Ceremonial        int                  `json:"ceremonial"`
	Wasted            int                  `json:"wasted"`
	CeremonialDetails []ClickContextDetail `json:"ceremonial_details"`
	WastedDetails     []ClickContextDetail `json:"wasted_details"`
}

// WellFormed reports whether the classification counters add up.
func (c ClickCount) WellFormed() bool {
	if c.Total < 0 || c.Productive < 0 || c.Ceremonial < 0 || c.Wasted < 0 {
		return false
	}
	return c.Total == c.Productive+c.Ceremonial+c.Wasted
}

type ClickContextDetail struct {
	Element string `json:"element"`
	Reason  string `json:"reason"`
}

type TimeOnTask struct {
	TotalMS          int       `json:"total_ms"`
	IdleGaps         []IdleGap `json:"idle_gaps"`
	IdleMS           *int      `json:"idle_ms"`
	ActiveMS         *int      `json:"active_ms"`
	LongestIdleMS    *int      `json:"longest_idle_ms"`
	LongestIdleAfter *string   `json:"longest_idle_after"`
}

type IdleGap struct {
	GapMS        float64 `json:"gap_ms"`
	AfterAction  string  `json:"after_action"`
	BeforeAction string  `json:"before_action"`
}

type Fitts struct {
	Formula         string        `json:"formula"`
	CumulativeID    float64       `json:"cumulative_id"`
	AverageID       float64       `json:"average_id"`
	MaxID           float64       `json:"max_id"`
	MaxIDElement    string        `json:"max_id_element"`
	MaxIDDistancePx float64       `json:"max_id_distance_px"`
	MaxIDTargetSize string        `json:"max_id_target_size"`
	Top3Hardest     []FittsTarget `json:"top_3_hardest"`
}

type FittsTarget struct {
	Element    string  `json:"element"`
	ID         float64 `json:"id"`
	DistancePx float64 `json:"distance_px"`
	TargetSize string  `json:"target_size"`
}

type ContextSwitches struct {
	Total                 int     `json:"total"`
	Ratio                 float64 `json:"ratio"`
	LongestKeyboardStreak *int    `json:"longest_keyboard_streak"`
	LongestMouseStreak    *int    `json:"longest_mouse_streak"`
}

type ShortcutCoverage struct {
	ShortcutsUsed int `json:"shortcuts_used"`
}

type TypingRatio struct {
	FreeTextInputs    int      `json:"free_text_inputs"`
	ConstrainedInputs int      `json:"constrained_inputs"`
	Ratio             float64  `json:"ratio"`
	FreeTextFields    []string `json:"free_text_fields"`
}

type ScanningDistance struct {
	Method        string  `json:"method"`
	CumulativePx  float64 `json:"cumulative_px"`
	AveragePx     float64 `json:"average_px"`
	MaxSinglePx   float64 `json:"max_single_px"`
	MaxSingleFrom *string `json:"max_single_from"`
	MaxSingleTo   *string `json:"max_single_to"`
}

type ScrollDistance struct {
	TotalPx           float64  `json:"total_px"`
	PageScrollPx      *float64 `json:"page_scroll_px"`
	ContainerScrollPx *float64 `json:"container_scroll_px"`
	TotalHorizontalPx *float64 `json:"total_horizontal_px"`
	ScrollEvents      *int     `json:"scroll_events"`
	HeaviestContainer *string  `json:"heaviest_container"`
}

type MouseTravel struct {
	TotalPx        float64  `json:"total_px"`
	IdleTravelPx   float64  `json:"idle_travel_px"`
	MoveEvents     int      `json:"move_events"`
	PathEfficiency *float64 `json:"path_efficiency"`
}

type ActionLogEntry struct {
	Type           string `json:"type"`
	Timestamp      int64  `json:"timestamp"`
	Target         string `json:"target"`
	Text           string `json:"text"`
	Classification string `json:"classification"`
}

// New returns an empty report with every collection initialised so that the
// JSON form is schema-complete from the first snapshot.
func New(source string, meta Metadata) *Report {
	if source == "" {
		source = DefaultSource
	}
	return &Report{
		SchemaVersion: SchemaVersion,
		Source:        source,
		Metadata:      meta,
		Metrics: Metrics{
			ClickCount: ClickCount{
				CeremonialDetails: []ClickContextDetail{},
				WastedDetails:     []ClickContextDetail{},
			},
			TimeOnTask: TimeOnTask{IdleGaps: []IdleGap{}},
			Fitts: Fitts{
				Formula:     FittsFormula,
				Top3Hardest: []FittsTarget{},
			},
			TypingRatio:      TypingRatio{FreeTextFields: []string{}},
			ScanningDistance: ScanningDistance{Method: ScanningMethod},
		},
		ActionLog: []ActionLogEntry{},
	}
}

// Clone returns a deep copy via the JSON form.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	var out Report
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return &out
}
