package transformer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/uxbench/uxbench/internal/event"
	"github.com/uxbench/uxbench/internal/report"
)

// ErrMalformedEvent is returned for payloads that cannot be turned into an event.
var ErrMalformedEvent = errors.New("malformed event")

// Control asks the session manager to start or stop recording.
type Control struct {
	Kind     string
	Metadata report.Metadata
}

// TransformResult holds either an interaction event or a control message.
type TransformResult struct {
	Event   event.Event
	Control *Control
}

// TransformEvent turns a raw decoded message into a typed event.
func TransformEvent(raw map[string]interface{}) (*TransformResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty message", ErrMalformedEvent)
	}

	eventType := getString(raw, "type")
	payload, _ := raw["payload"].(map[string]interface{})

	// Control messages carry no timestamp requirement
	switch eventType {
	case event.TypeSessionStart, "start":
		return &TransformResult{Control: &Control{
			Kind:     event.TypeSessionStart,
			Metadata: parseMetadata(payload),
		}}, nil
	case event.TypeSessionStop, "stop":
		return &TransformResult{Control: &Control{Kind: event.TypeSessionStop}}, nil
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}

	timestamp, ok := getFloat64(raw, "timestamp")
	if !ok {
		return nil, fmt.Errorf("%w: %s event missing timestamp", ErrMalformedEvent, eventType)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: %s event missing payload", ErrMalformedEvent, eventType)
	}
	ts := int64(timestamp)

	var (
		ev  event.Event
		err error
	)
	switch eventType {
	case event.TypeClick:
		ev, err = parseClick(ts, payload)
	case event.TypeScroll:
		ev, err = parseScroll(ts, payload)
	case event.TypeKeyboard:
		ev, err = parseKeyboard(ts, payload)
	case event.TypeCursorTravel, "mouse_travel":
		ev, err = parseCursorTravel(ts, payload)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, eventType)
	}
	if err != nil {
		return nil, err
	}

	return &TransformResult{Event: ev}, nil
}

func parseClick(ts int64, p map[string]interface{}) (event.Event, error) {
	x, okX := getFloat64(p, "x")
	y, okY := getFloat64(p, "y")
	if !okX || !okY {
		return nil, fmt.Errorf("%w: click missing coordinates", ErrMalformedEvent)
	}

	classification := event.Classification(getString(p, "classification"))
	if !classification.Valid() {
		return nil, fmt.Errorf("%w: click classification %q", ErrMalformedEvent, classification)
	}

	target, ok := p["target"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: click missing target", ErrMalformedEvent)
	}
	tag := getString(target, "tag")
	if tag == "" {
		return nil, fmt.Errorf("%w: click target missing tag", ErrMalformedEvent)
	}
	width, _ := getFloat64(target, "rect_width")
	height, _ := getFloat64(target, "rect_height")

	return event.Click{
		Timestamp:      ts,
		X:              x,
		Y:              y,
		Classification: classification,
		Reason:         getString(p, "reason"),
		Target: event.Target{
			Tag:        tag,
			ID:         getString(target, "id"),
			Text:       getString(target, "text"),
			RectWidth:  width,
			RectHeight: height,
		},
	}, nil
}

func parseScroll(ts int64, p map[string]interface{}) (event.Event, error) {
	total, ok := getFloat64(p, "total_px")
	if !ok {
		return nil, fmt.Errorf("%w: scroll missing total_px", ErrMalformedEvent)
	}
	page, _ := getFloat64(p, "page_scroll_px")
	container, _ := getFloat64(p, "container_scroll_px")
	horizontal, _ := getFloat64(p, "horizontal_px")

	return event.Scroll{
		Timestamp:         ts,
		TotalPx:           total,
		PageScrollPx:      page,
		ContainerScrollPx: container,
		HorizontalPx:      horizontal,
		ScrollEventCount:  getInt(p, "scroll_event_count"),
		HeaviestContainer: getString(p, "heaviest_container"),
	}, nil
}

func parseKeyboard(ts int64, p map[string]interface{}) (event.Event, error) {
	if _, ok := getFloat64(p, "switches_total"); !ok {
		return nil, fmt.Errorf("%w: keyboard missing switches_total", ErrMalformedEvent)
	}
	switchRatio, _ := getFloat64(p, "switch_ratio")
	typingRatio, _ := getFloat64(p, "typing_ratio")

	var labels []string
	if list, ok := p["free_text_field_labels"].([]interface{}); ok {
		for _, l := range list {
			if s, ok := l.(string); ok {
				labels = append(labels, s)
			}
		}
	}

	return event.Keyboard{
		Timestamp:             ts,
		SwitchesTotal:         getInt(p, "switches_total"),
		SwitchRatio:           switchRatio,
		LongestKeyboardStreak: getInt(p, "longest_keyboard_streak"),
		LongestMouseStreak:    getInt(p, "longest_mouse_streak"),
		ShortcutsUsed:         getInt(p, "shortcuts_used"),
		FreeTextInputs:        getInt(p, "free_text_inputs"),
		ConstrainedInputs:     getInt(p, "constrained_inputs"),
		TypingRatio:           typingRatio,
		FreeTextFieldLabels:   labels,
	}, nil
}

func parseCursorTravel(ts int64, p map[string]interface{}) (event.Event, error) {
	total, ok := getFloat64(p, "total_px")
	if !ok {
		return nil, fmt.Errorf("%w: cursor travel missing total_px", ErrMalformedEvent)
	}
	idle, _ := getFloat64(p, "idle_travel_px")

	return event.CursorTravel{
		Timestamp:    ts,
		TotalPx:      total,
		IdleTravelPx: idle,
		MoveEvents:   getInt(p, "move_events"),
	}, nil
}

func parseMetadata(p map[string]interface{}) report.Metadata {
	if p == nil {
		return report.Metadata{}
	}
	return report.Metadata{
		RecordingName: getString(p, "recording_name"),
		Product:       getString(p, "product"),
		Task:          getString(p, "task"),
		URL:           getString(p, "url"),
		Browser:       getString(p, "browser"),
		OS:            getString(p, "os"),
		SourceVersion: getString(p, "source_version"),
		Operator:      getString(p, "operator"),
	}
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getFloat64(m map[string]interface{}, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func getInt(m map[string]interface{}, key string) int {
	v, _ := getFloat64(m, key)
	return int(v)
}
