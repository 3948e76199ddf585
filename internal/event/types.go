package event

// Type names as they appear on the wire.
const (
	TypeClick        = "click"
	TypeScroll       = "scroll"
	TypeKeyboard     = "keyboard"
	TypeCursorTravel = "cursor_travel"
	TypeSessionStart = "session_start"
	TypeSessionStop  = "session_stop"
)

// Classification of a click as decided by the sensor that observed it.
type Classification string

const (
	Productive Classification = "productive"
	Ceremonial Classification = "ceremonial"
	Wasted     Classification = "wasted"
)

// Valid reports whether c is one of the known classifications.
func (c Classification) Valid() bool {
	switch c {
	case Productive, Ceremonial, Wasted:
		return true
	}
	return false
}

// Event is one pre-classified interaction handed to the engine.
type Event interface {
	Type() string
	// Time is the producer timestamp in unix milliseconds.
	Time() int64
}

// Target describes the element a click landed on.
type Target struct {
	Tag        string
	ID         string
	Text       string
	RectWidth  float64
	RectHeight float64
}

type Click struct {
	Timestamp      int64
	X              float64
	Y              float64
	Classification Classification
	Reason         string
	Target         Target
}

func (Click) Type() string { return TypeClick }
func (e Click) Time() int64 { return e.Timestamp }

// Scroll carries totals already accumulated by the producer.
type Scroll struct {
	Timestamp         int64
	TotalPx           float64
	PageScrollPx      float64
	ContainerScrollPx float64
	HorizontalPx      float64
	ScrollEventCount  int
	HeaviestContainer string
}

func (Scroll) Type() string { return TypeScroll }
func (e Scroll) Time() int64 { return e.Timestamp }

// Keyboard carries the producer's running mode-switch and input summary.
type Keyboard struct {
	Timestamp             int64
	SwitchesTotal         int
	SwitchRatio           float64
	LongestKeyboardStreak int
	LongestMouseStreak    int
	ShortcutsUsed         int
	FreeTextInputs        int
	ConstrainedInputs     int
	TypingRatio           float64
	FreeTextFieldLabels   []string
}

func (Keyboard) Type() string { return TypeKeyboard }
func (e Keyboard) Time() int64 { return e.Timestamp }

type CursorTravel struct {
	Timestamp    int64
	TotalPx      float64
	IdleTravelPx float64
	MoveEvents   int
}

func (CursorTravel) Type() string { return TypeCursorTravel }
func (e CursorTravel) Time() int64 { return e.Timestamp }
